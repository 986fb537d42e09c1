package controllers

import (
	"errors"
	"time"

	"github.com/BRIANBC93/RealEstate/config"
	"github.com/BRIANBC93/RealEstate/repositories"
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	Users  *repositories.UserRepository
	Config *config.Config
}

func NewAuthController(users *repositories.UserRepository, cfg *config.Config) *AuthController {
	return &AuthController{Users: users, Config: cfg}
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input loginInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := c.Users.GetByUsername(ctx.UserContext(), input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	sessionID := uuid.NewString()
	expiresAt := time.Now().Add(time.Duration(c.Config.JWTExpiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"username":   user.Username,
		"session_id": sessionID,
		"exp":        expiresAt.Unix(),
		"jti":        uuid.NewString(),
	})

	tokenString, err := token.SignedString([]byte(c.Config.JWTSecret))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return ctx.JSON(fiber.Map{
		"token":      tokenString,
		"expires_at": expiresAt.Unix(),
	})
}
