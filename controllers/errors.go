package controllers

import (
	"github.com/BRIANBC93/RealEstate/apperr"
	"github.com/gofiber/fiber/v2"
)

// respondError maps the service-layer error taxonomy onto HTTP statuses.
func respondError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.Validation, apperr.Duplicate:
		status = fiber.StatusBadRequest
	case apperr.NotFound:
		status = fiber.StatusNotFound
	case apperr.Conflict:
		status = fiber.StatusConflict
	case apperr.Unauthorized:
		status = fiber.StatusUnauthorized
	}
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
