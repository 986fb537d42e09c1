package main

import (
	"github.com/BRIANBC93/RealEstate/config"
	"github.com/BRIANBC93/RealEstate/controllers"
	"github.com/BRIANBC93/RealEstate/controllers/idgen"
	"github.com/BRIANBC93/RealEstate/database"
	"github.com/BRIANBC93/RealEstate/middleware"
	"github.com/BRIANBC93/RealEstate/notifier"
	"github.com/BRIANBC93/RealEstate/repositories"
	"github.com/BRIANBC93/RealEstate/routes"
	"github.com/BRIANBC93/RealEstate/services"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	if err := database.SeedAdminUser(db, cfg, log); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	idgen.Init()

	userRepo := repositories.NewUserRepository(db)
	ownerRepo := repositories.NewOwnerRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)

	var priceNotifier services.PriceChangeNotifier
	if mailer := notifier.NewMailer(cfg.SMTP, log); mailer != nil {
		priceNotifier = mailer
	}

	ownerService := services.NewOwnerService(ownerRepo)
	propertyService := services.NewPropertyService(propertyRepo, ownerRepo, priceNotifier, log)

	authController := controllers.NewAuthController(userRepo, cfg)
	ownerController := controllers.NewOwnerController(ownerService)
	propertyController := controllers.NewPropertyController(propertyService)

	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024,
	})

	cfg.SetupCORS(app)
	app.Use(middleware.RequestLogger(log))

	routes.SetupAuthRoutes(app, cfg, authController)
	routes.SetupOwnerRoutes(app, cfg, ownerController)
	routes.SetupPropertyRoutes(app, cfg, propertyController)

	log.Infof("Server running on port %s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal(err)
	}
}
