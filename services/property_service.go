package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/BRIANBC93/RealEstate/apperr"
	"github.com/BRIANBC93/RealEstate/models"
	"github.com/BRIANBC93/RealEstate/repositories"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	minYear           = 1800
	defaultTraceLabel = "Price change"
	maxPageSize       = 200
)

var maxPrice = decimal.NewFromInt(999_999_999)

type CreatePropertyInput struct {
	CodeInternal string
	Name         string
	Address      string
	Year         int
	Price        decimal.Decimal
	OwnerID      *uint
}

type UpdatePropertyInput struct {
	Name         string
	Address      string
	Year         int
	VersionToken string
}

type ChangePriceInput struct {
	NewPrice     decimal.Decimal
	ChangedBy    string
	VersionToken *string
}

// PropertyView is the read projection: property fields, the derived image
// count, the linked owner (if any) and the encoded version token.
type PropertyView struct {
	ID           uint            `json:"id"`
	CodeInternal string          `json:"codeInternal"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Year         int             `json:"year"`
	Price        decimal.Decimal `json:"price"`
	OwnerID      *uint           `json:"ownerId,omitempty"`
	OwnerName    string          `json:"ownerName,omitempty"`
	ImageCount   int64           `json:"imageCount"`
	VersionToken string          `json:"versionToken"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type PagedResult struct {
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Total    int64          `json:"total"`
	Items    []PropertyView `json:"items"`
}

type ListPropertiesInput struct {
	Search     string
	YearFrom   *int
	YearTo     *int
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	WithImages *bool
	SortBy     string
	Desc       bool
	Page       int
	PageSize   int
}

// PriceChangeNotifier is told after a price change commits. Implementations
// must not fail the request.
type PriceChangeNotifier interface {
	PriceChanged(property *models.Property, oldPrice, newPrice decimal.Decimal)
}

type PropertyService struct {
	properties *repositories.PropertyRepository
	owners     *repositories.OwnerRepository
	notifier   PriceChangeNotifier
	log        *logrus.Logger
}

func NewPropertyService(properties *repositories.PropertyRepository, owners *repositories.OwnerRepository, notifier PriceChangeNotifier, log *logrus.Logger) *PropertyService {
	return &PropertyService{
		properties: properties,
		owners:     owners,
		notifier:   notifier,
		log:        log,
	}
}

// CreateProperty validates in order: year range, duplicate internal code,
// owner existence. String fields are trimmed before storage.
func (s *PropertyService) CreateProperty(ctx context.Context, input CreatePropertyInput) (*models.Property, error) {
	code := strings.TrimSpace(input.CodeInternal)
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)

	if err := validateYear(input.Year); err != nil {
		return nil, err
	}
	if code == "" || len(code) > 64 {
		return nil, apperr.New(apperr.Validation, "codeInternal is required and must be at most 64 characters")
	}
	if name == "" || len(name) > 200 {
		return nil, apperr.New(apperr.Validation, "name is required and must be at most 200 characters")
	}
	if address == "" || len(address) > 300 {
		return nil, apperr.New(apperr.Validation, "address is required and must be at most 300 characters")
	}
	if input.Price.IsNegative() || input.Price.GreaterThan(maxPrice) {
		return nil, apperr.New(apperr.Validation, "price must be between 0 and 999999999")
	}

	exists, err := s.properties.CodeExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Newf(apperr.Duplicate, "property code %q already exists", code)
	}

	if input.OwnerID != nil {
		ownerExists, err := s.owners.Exists(ctx, *input.OwnerID)
		if err != nil {
			return nil, err
		}
		if !ownerExists {
			return nil, apperr.Newf(apperr.NotFound, "owner %d not found", *input.OwnerID)
		}
	}

	now := time.Now().UTC()
	property := models.Property{
		CodeInternal: code,
		Name:         name,
		Address:      address,
		Year:         input.Year,
		Price:        input.Price,
		OwnerID:      input.OwnerID,
		RowVersion:   1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.properties.Create(ctx, &property); err != nil {
		// Losing the uniqueness race to a concurrent create lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Newf(apperr.Duplicate, "property code %q already exists", code)
		}
		return nil, err
	}
	return &property, nil
}

func (s *PropertyService) GetProperty(ctx context.Context, id uint) (*PropertyView, error) {
	row, err := s.properties.GetRow(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.NotFound, "property %d not found", id)
		}
		return nil, err
	}
	view := viewFromRow(row)
	return &view, nil
}

// UpdateProperty replaces the editable fields. The version token is
// mandatory here; the store checks it atomically inside the UPDATE.
func (s *PropertyService) UpdateProperty(ctx context.Context, id uint, input UpdatePropertyInput) error {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)

	if err := validateYear(input.Year); err != nil {
		return err
	}
	if name == "" || len(name) > 200 {
		return apperr.New(apperr.Validation, "name is required and must be at most 200 characters")
	}
	if address == "" || len(address) > 300 {
		return apperr.New(apperr.Validation, "address is required and must be at most 300 characters")
	}
	if input.VersionToken == "" {
		return apperr.New(apperr.Validation, "versionToken is required")
	}
	expected, err := DecodeVersionToken(input.VersionToken)
	if err != nil {
		return err
	}

	matched, err := s.properties.UpdateChecked(ctx, id, expected, name, address, input.Year, time.Now().UTC())
	if err != nil {
		return err
	}
	if !matched {
		return s.staleOrMissing(ctx, id)
	}
	return nil
}

// ChangePrice writes the audit trace and the new price as one atomic unit.
// The version check only applies when the caller supplied a token. Setting
// the current price again is a successful no-op.
func (s *PropertyService) ChangePrice(ctx context.Context, id uint, input ChangePriceInput) error {
	if input.NewPrice.IsNegative() || input.NewPrice.GreaterThan(maxPrice) {
		return apperr.New(apperr.Validation, "newPrice must be between 0 and 999999999")
	}

	var expected *int64
	if input.VersionToken != nil {
		version, err := DecodeVersionToken(*input.VersionToken)
		if err != nil {
			return err
		}
		expected = &version
	}

	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Newf(apperr.NotFound, "property %d not found", id)
		}
		return err
	}

	if expected != nil && *expected != property.RowVersion {
		return apperr.New(apperr.Conflict, "property was modified concurrently, refresh and retry")
	}

	if property.Price.Equal(input.NewPrice) {
		return nil
	}

	label := strings.TrimSpace(input.ChangedBy)
	if label == "" {
		label = defaultTraceLabel
	}

	matched, err := s.properties.ChangePrice(ctx, id, expected, input.NewPrice, label, time.Now().UTC())
	if err != nil {
		return err
	}
	if !matched {
		return s.staleOrMissing(ctx, id)
	}

	s.log.WithFields(logrus.Fields{
		"property_id": id,
		"old_price":   property.Price.String(),
		"new_price":   input.NewPrice.String(),
		"label":       label,
	}).Info("property price changed")

	if s.notifier != nil {
		go s.notifier.PriceChanged(property, property.Price, input.NewPrice)
	}
	return nil
}

// AddImage appends the payload base64-encoded. Images are never updated.
func (s *PropertyService) AddImage(ctx context.Context, propertyID uint, data []byte, enabled bool) error {
	if len(data) == 0 {
		return apperr.New(apperr.Validation, "image data must not be empty")
	}

	exists, err := s.properties.Exists(ctx, propertyID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Newf(apperr.NotFound, "property %d not found", propertyID)
	}

	image := models.PropertyImage{
		PropertyID: propertyID,
		Data:       base64.StdEncoding.EncodeToString(data),
		Enabled:    enabled,
		CreatedAt:  time.Now().UTC(),
	}
	return s.properties.AddImage(ctx, &image)
}

// ListTraces returns the price history, newest first.
func (s *PropertyService) ListTraces(ctx context.Context, propertyID uint) ([]models.PropertyTrace, error) {
	exists, err := s.properties.Exists(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.Newf(apperr.NotFound, "property %d not found", propertyID)
	}
	return s.properties.GetTraces(ctx, propertyID)
}

// ListProperties clamps the pagination inputs and delegates the filtering
// to the store.
func (s *PropertyService) ListProperties(ctx context.Context, input ListPropertiesInput) (*PagedResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	rows, total, err := s.properties.List(ctx, repositories.PropertyFilter{
		Search:     strings.TrimSpace(input.Search),
		YearFrom:   input.YearFrom,
		YearTo:     input.YearTo,
		MinPrice:   input.MinPrice,
		MaxPrice:   input.MaxPrice,
		WithImages: input.WithImages,
		SortBy:     input.SortBy,
		Desc:       input.Desc,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]PropertyView, 0, len(rows))
	for i := range rows {
		items = append(items, viewFromRow(&rows[i]))
	}
	return &PagedResult{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    items,
	}, nil
}

// staleOrMissing disambiguates a zero-row checked update: the row is either
// gone (404) or newer than the caller's token (409).
func (s *PropertyService) staleOrMissing(ctx context.Context, id uint) error {
	exists, err := s.properties.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Newf(apperr.NotFound, "property %d not found", id)
	}
	return apperr.New(apperr.Conflict, "property was modified concurrently, refresh and retry")
}

func validateYear(year int) error {
	maxYear := time.Now().UTC().Year() + 1
	if year < minYear || year > maxYear {
		return apperr.Newf(apperr.Validation, "year must be between %d and %d", minYear, maxYear)
	}
	return nil
}

func viewFromRow(row *repositories.PropertyRow) PropertyView {
	view := PropertyView{
		ID:           row.ID,
		CodeInternal: row.CodeInternal,
		Name:         row.Name,
		Address:      row.Address,
		Year:         row.Year,
		Price:        row.Price,
		OwnerID:      row.OwnerID,
		ImageCount:   row.ImageCount,
		VersionToken: EncodeVersionToken(row.RowVersion),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.OwnerID != nil && row.OwnerName != nil {
		view.OwnerName = *row.OwnerName
	}
	return view
}
