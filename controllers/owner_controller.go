package controllers

import (
	"time"

	"github.com/BRIANBC93/RealEstate/services"
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
)

type OwnerController struct {
	Service *services.OwnerService
}

func NewOwnerController(service *services.OwnerService) *OwnerController {
	return &OwnerController{Service: service}
}

type ownerCreateInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address" validate:"max=300"`
	Photo    string `json:"photo"`
	Birthday string `json:"birthday"` // yyyy-mm-dd
}

func (c *OwnerController) CreateOwner(ctx *fiber.Ctx) error {
	var input ownerCreateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var birthday *time.Time
	if input.Birthday != "" {
		parsed, err := time.Parse("2006-01-02", input.Birthday)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "birthday must be yyyy-mm-dd"})
		}
		birthday = &parsed
	}

	owner, err := c.Service.CreateOwner(ctx.UserContext(), services.CreateOwnerInput{
		Name:     input.Name,
		Address:  input.Address,
		Photo:    input.Photo,
		Birthday: birthday,
	})
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(owner)
}

func (c *OwnerController) GetOwnerByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	owner, err := c.Service.GetOwner(ctx.UserContext(), uint(id))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(owner)
}

func (c *OwnerController) GetAllOwners(ctx *fiber.Ctx) error {
	owners, err := c.Service.ListOwners(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(owners)
}
