package routes

import (
	"github.com/BRIANBC93/RealEstate/config"
	"github.com/BRIANBC93/RealEstate/controllers"
	"github.com/BRIANBC93/RealEstate/middleware"
	"github.com/gofiber/fiber/v2"
)

func SetupOwnerRoutes(app *fiber.App, cfg *config.Config, ownerController *controllers.OwnerController) {
	api := app.Group(cfg.APIPrefix + "/owners")

	api.Post("/", middleware.Auth(cfg), ownerController.CreateOwner)
	api.Get("/", ownerController.GetAllOwners)
	api.Get("/:id", ownerController.GetOwnerByID)
}
