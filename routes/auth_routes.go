package routes

import (
	"github.com/BRIANBC93/RealEstate/config"
	"github.com/BRIANBC93/RealEstate/controllers"
	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, cfg *config.Config, authController *controllers.AuthController) {
	api := app.Group(cfg.APIPrefix + "/auth")
	api.Post("/login", authController.Login)
}
