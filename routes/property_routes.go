package routes

import (
	"github.com/BRIANBC93/RealEstate/config"
	"github.com/BRIANBC93/RealEstate/controllers"
	"github.com/BRIANBC93/RealEstate/middleware"
	"github.com/gofiber/fiber/v2"
)

func SetupPropertyRoutes(app *fiber.App, cfg *config.Config, propertyController *controllers.PropertyController) {
	api := app.Group(cfg.APIPrefix + "/properties")
	auth := middleware.Auth(cfg)

	api.Get("/", propertyController.ListProperties)
	api.Get("/export", auth, propertyController.ExportProperties)
	api.Post("/import", auth, propertyController.ImportProperties)
	api.Get("/:id", propertyController.GetPropertyByID)
	api.Get("/:id/traces", propertyController.GetTraces)
	api.Post("/", auth, propertyController.CreateProperty)
	api.Put("/:id", auth, propertyController.UpdateProperty)
	api.Patch("/:id/price", auth, propertyController.ChangePrice)

	if cfg.ImageUploadAuth {
		api.Post("/:id/images", auth, propertyController.AddImage)
	} else {
		api.Post("/:id/images", propertyController.AddImage)
	}
}
