package controllers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BRIANBC93/RealEstate/apperr"
	"github.com/BRIANBC93/RealEstate/services"
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// maxImageSize caps multipart image uploads at 10MB.
const maxImageSize = 10 << 20

type PropertyController struct {
	Service *services.PropertyService
}

func NewPropertyController(service *services.PropertyService) *PropertyController {
	return &PropertyController{Service: service}
}

type propertyCreateInput struct {
	CodeInternal string          `json:"codeInternal" validate:"required,max=64"`
	Name         string          `json:"name" validate:"required,max=200"`
	Address      string          `json:"address" validate:"required,max=300"`
	Year         int             `json:"year" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	OwnerID      *uint           `json:"ownerId"`
}

type propertyUpdateInput struct {
	Name         string `json:"name" validate:"required,max=200"`
	Address      string `json:"address" validate:"required,max=300"`
	Year         int    `json:"year" validate:"required"`
	VersionToken string `json:"versionToken" validate:"required"`
}

type priceChangeInput struct {
	NewPrice     *decimal.Decimal `json:"newPrice"`
	ChangedBy    string           `json:"changedBy"`
	VersionToken *string          `json:"versionToken"`
}

func (c *PropertyController) CreateProperty(ctx *fiber.Ctx) error {
	var input propertyCreateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	property, err := c.Service.CreateProperty(ctx.UserContext(), services.CreatePropertyInput{
		CodeInternal: input.CodeInternal,
		Name:         input.Name,
		Address:      input.Address,
		Year:         input.Year,
		Price:        input.Price,
		OwnerID:      input.OwnerID,
	})
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(property)
}

func (c *PropertyController) GetPropertyByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	view, err := c.Service.GetProperty(ctx.UserContext(), uint(id))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(view)
}

func (c *PropertyController) UpdateProperty(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input propertyUpdateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err = c.Service.UpdateProperty(ctx.UserContext(), uint(id), services.UpdatePropertyInput{
		Name:         input.Name,
		Address:      input.Address,
		Year:         input.Year,
		VersionToken: input.VersionToken,
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *PropertyController) ChangePrice(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input priceChangeInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.NewPrice == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "newPrice is required"})
	}

	err = c.Service.ChangePrice(ctx.UserContext(), uint(id), services.ChangePriceInput{
		NewPrice:     *input.NewPrice,
		ChangedBy:    input.ChangedBy,
		VersionToken: input.VersionToken,
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *PropertyController) AddImage(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if file.Size > maxImageSize {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file exceeds the 10MB limit"})
	}

	src, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read file"})
	}

	enabled, _ := strconv.ParseBool(ctx.FormValue("enabled", "false"))

	if err := c.Service.AddImage(ctx.UserContext(), uint(id), data, enabled); err != nil {
		return respondError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *PropertyController) GetTraces(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	traces, err := c.Service.ListTraces(ctx.UserContext(), uint(id))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(traces)
}

func (c *PropertyController) ListProperties(ctx *fiber.Ctx) error {
	input, err := parseListQuery(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := c.Service.ListProperties(ctx.UserContext(), *input)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(result)
}

func parseListQuery(ctx *fiber.Ctx) (*services.ListPropertiesInput, error) {
	input := services.ListPropertiesInput{
		Search: ctx.Query("search"),
		SortBy: ctx.Query("sortBy"),
	}

	var err error
	if input.YearFrom, err = queryInt(ctx, "yearFrom"); err != nil {
		return nil, err
	}
	if input.YearTo, err = queryInt(ctx, "yearTo"); err != nil {
		return nil, err
	}
	if input.MinPrice, err = queryDecimal(ctx, "minPrice"); err != nil {
		return nil, err
	}
	if input.MaxPrice, err = queryDecimal(ctx, "maxPrice"); err != nil {
		return nil, err
	}

	if raw := ctx.Query("withImages"); raw != "" {
		withImages, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("withImages must be a boolean")
		}
		input.WithImages = &withImages
	}
	if raw := ctx.Query("desc"); raw != "" {
		input.Desc, _ = strconv.ParseBool(raw)
	}

	input.Page, _ = strconv.Atoi(ctx.Query("page", "1"))
	input.PageSize, _ = strconv.Atoi(ctx.Query("pageSize", "10"))
	return &input, nil
}

func queryInt(ctx *fiber.Ctx, name string) (*int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &value, nil
}

func queryDecimal(ctx *fiber.Ctx, name string) (*decimal.Decimal, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &value, nil
}

// ExportProperties streams the filtered property list as an Excel workbook.
func (c *PropertyController) ExportProperties(ctx *fiber.Ctx) error {
	input, err := parseListQuery(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	input.Page = 1
	input.PageSize = 200

	var items []services.PropertyView
	for {
		result, err := c.Service.ListProperties(ctx.UserContext(), *input)
		if err != nil {
			return respondError(ctx, err)
		}
		items = append(items, result.Items...)
		if int64(len(items)) >= result.Total || len(result.Items) == 0 {
			break
		}
		input.Page++
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"ID", "CODE_INTERNAL", "NAME", "ADDRESS", "YEAR", "PRICE", "OWNER_ID", "CREATED_AT"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}
	for i, item := range items {
		ownerID := ""
		if item.OwnerID != nil {
			ownerID = strconv.FormatUint(uint64(*item.OwnerID), 10)
		}
		row := []interface{}{
			item.ID, item.CodeInternal, item.Name, item.Address, item.Year,
			item.Price.String(), ownerID, item.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
		}
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="properties.xlsx"`)
	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write workbook"})
	}
	return nil
}

// PropertyImportResult reports the outcome of an Excel bulk import.
type PropertyImportResult struct {
	TotalRows     int      `json:"totalRows"`
	SuccessCount  int      `json:"successCount"`
	SkippedCount  int      `json:"skippedCount"`
	ErrorCount    int      `json:"errorCount"`
	SkippedItems  []string `json:"skippedItems"`
	ErrorMessages []string `json:"errorMessages"`
}

// ImportProperties bulk-creates properties from an uploaded Excel file.
// Expected columns: CODE_INTERNAL, NAME, ADDRESS, YEAR, PRICE, OWNER_ID.
// Rows whose code already exists are skipped, not treated as errors.
func (c *PropertyController) ImportProperties(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}

	name := strings.ToLower(file.Filename)
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only Excel files (.xlsx, .xls) are allowed"})
	}

	src, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read Excel file"})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No sheets found in Excel file"})
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read rows"})
	}
	if len(rows) < 2 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Excel file must contain header and at least one data row"})
	}

	result := PropertyImportResult{
		TotalRows:     len(rows) - 1,
		SkippedItems:  []string{},
		ErrorMessages: []string{},
	}

	for i, row := range rows[1:] {
		rowNum := i + 2 // header is row 1

		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 5 {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Insufficient columns (expected at least 5)", rowNum))
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(row[0]))
		propName := strings.TrimSpace(row[1])
		address := strings.TrimSpace(row[2])

		year, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Invalid year '%s'", rowNum, row[3]))
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row[4]))
		if err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Invalid price '%s'", rowNum, row[4]))
			continue
		}

		var ownerID *uint
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			parsed, err := strconv.ParseUint(strings.TrimSpace(row[5]), 10, 32)
			if err != nil {
				result.ErrorCount++
				result.ErrorMessages = append(result.ErrorMessages,
					fmt.Sprintf("Row %d: Invalid owner id '%s'", rowNum, row[5]))
				continue
			}
			id := uint(parsed)
			ownerID = &id
		}

		_, err = c.Service.CreateProperty(ctx.UserContext(), services.CreatePropertyInput{
			CodeInternal: code,
			Name:         propName,
			Address:      address,
			Year:         year,
			Price:        price,
			OwnerID:      ownerID,
		})
		if err != nil {
			if apperr.IsDuplicate(err) {
				result.SkippedCount++
				result.SkippedItems = append(result.SkippedItems, code)
				continue
			}
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: %s", rowNum, err.Error()))
			continue
		}
		result.SuccessCount++
	}

	return ctx.JSON(fiber.Map{
		"message": fmt.Sprintf("Upload completed: %d success, %d skipped, %d errors",
			result.SuccessCount, result.SkippedCount, result.ErrorCount),
		"data": result,
	})
}
