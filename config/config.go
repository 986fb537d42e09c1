package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

// DatabaseConfig holds the connection settings for the relational store.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// SMTPConfig holds the optional mail-notification settings. Empty Host
// disables notifications.
type SMTPConfig struct {
	Host       string
	Port       int
	Sender     string
	Password   string
	Recipients []string
}

// Config is built once at startup and passed into the components that need
// it; there is no package-level mutable state.
type Config struct {
	APIPrefix     string
	AppPort       string
	JWTSecret     string
	JWTExpiration int // seconds

	DB   DatabaseConfig
	SMTP SMTPConfig

	AdminUsername string
	AdminPassword string

	// ImageUploadAuth requires a bearer token on the image-upload route
	// when true.
	ImageUploadAuth bool

	allowedOrigins map[string]bool
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := &Config{
		APIPrefix:     getEnv("API_PREFIX", "/api"),
		AppPort:       getEnv("APP_PORT", "9000"),
		JWTSecret:     getEnv("JWT_SECRET", "realestate_api_key_secret"),
		JWTExpiration: getEnvAsInt("JWT_EXPIRATION", 86400),
		DB: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlserver"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "1433"),
			User:     getEnv("DB_USER", "golang"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "realestate"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 465),
			Sender:     getEnv("SMTP_SENDER", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			Recipients: splitList(getEnv("SMTP_RECIPIENTS", "")),
		},
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
		ImageUploadAuth: getEnvAsBool("IMAGE_UPLOAD_AUTH", false),
		allowedOrigins:  loadAllowedOrigins(),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadAllowedOrigins() map[string]bool {
	origins := make(map[string]bool)
	originsStr := getEnv("ALLOWED_ORIGINS", "")

	if originsStr == "" {
		return map[string]bool{
			"http://127.0.0.1:3000": true,
		}
	}

	for _, origin := range strings.Split(originsStr, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins[origin] = true
		}
	}
	return origins
}

// SetupCORS registers the CORS middleware for the configured origins.
func (c *Config) SetupCORS(app *fiber.App) {
	app.Use(func(ctx *fiber.Ctx) error {
		origin := ctx.Get("Origin")
		if c.allowedOrigins[origin] {
			ctx.Set("Access-Control-Allow-Origin", origin)
			ctx.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			ctx.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			ctx.Set("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight request
		if ctx.Method() == fiber.MethodOptions {
			return ctx.SendStatus(fiber.StatusNoContent)
		}
		return ctx.Next()
	})
}
