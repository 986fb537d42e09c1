package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BRIANBC93/RealEstate/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PropertyFilter carries the listing query. Page and PageSize arrive
// already clamped by the service layer.
type PropertyFilter struct {
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

// PropertyRow is a listing/detail projection: the property columns plus the
// linked owner's name and the derived image count.
type PropertyRow struct {
	ID           uint
	CodeInternal string
	Name         string
	Address      string
	Year         int
	Price        decimal.Decimal
	OwnerID      *uint
	RowVersion   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	OwnerName    *string
	ImageCount   int64
}

const propertyRowSelect = `properties.id, properties.code_internal, properties.name, properties.address,
properties.year, properties.price, properties.owner_id, properties.row_version,
properties.created_at, properties.updated_at, owners.name AS owner_name,
(SELECT COUNT(*) FROM property_images WHERE property_images.property_id = properties.id) AS image_count`

const imageCountSub = "(SELECT COUNT(*) FROM property_images WHERE property_images.property_id = properties.id)"

var sortColumns = map[string]string{
	"price":     "properties.price",
	"year":      "properties.year",
	"createdat": "properties.created_at",
	"name":      "properties.name",
}

var errVersionMismatch = errors.New("row version mismatch")

type PropertyRepository struct {
	DB *gorm.DB
}

func NewPropertyRepository(DB *gorm.DB) *PropertyRepository {
	return &PropertyRepository{DB: DB}
}

func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.DB.WithContext(ctx).Create(property).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	err := r.DB.WithContext(ctx).First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Property{}).
		Where("code_internal = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *PropertyRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GetRow returns the detail projection or gorm.ErrRecordNotFound.
func (r *PropertyRepository) GetRow(ctx context.Context, id uint) (*PropertyRow, error) {
	var row PropertyRow
	res := r.DB.WithContext(ctx).Model(&models.Property{}).
		Select(propertyRowSelect).
		Joins("LEFT JOIN owners ON owners.id = properties.owner_id").
		Where("properties.id = ?", id).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// UpdateChecked replaces the editable fields if and only if the stored row
// version equals expected. The version check and the write are one atomic
// statement. Returns false when no row matched.
func (r *PropertyRepository) UpdateChecked(ctx context.Context, id uint, expected int64, name, address string, year int, now time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Property{}).
		Where("id = ? AND row_version = ?", id, expected).
		Updates(map[string]interface{}{
			"name":        name,
			"address":     address,
			"year":        year,
			"updated_at":  now,
			"row_version": gorm.Expr("row_version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ChangePrice inserts the trace row and overwrites the price in one
// transaction; either both commit or neither does. When expected is non-nil
// the price update is version-checked, and a mismatch rolls the trace back
// too. Returns false when no row matched the update.
func (r *PropertyRepository) ChangePrice(ctx context.Context, id uint, expected *int64, price decimal.Decimal, label string, now time.Time) (bool, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trace := models.PropertyTrace{
			PropertyID:   id,
			DateOfChange: now,
			Label:        label,
			Value:        price,
			Tax:          decimal.Zero,
		}
		if err := tx.Create(&trace).Error; err != nil {
			return err
		}

		query := tx.Model(&models.Property{}).Where("id = ?", id)
		if expected != nil {
			query = query.Where("row_version = ?", *expected)
		}
		res := query.Updates(map[string]interface{}{
			"price":       price,
			"updated_at":  now,
			"row_version": gorm.Expr("row_version + 1"),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errVersionMismatch
		}
		return nil
	})
	if errors.Is(err, errVersionMismatch) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PropertyRepository) AddImage(ctx context.Context, image *models.PropertyImage) error {
	return r.DB.WithContext(ctx).Create(image).Error
}

func (r *PropertyRepository) GetTraces(ctx context.Context, propertyID uint) ([]models.PropertyTrace, error) {
	var traces []models.PropertyTrace
	err := r.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("date_of_change DESC, id DESC").
		Find(&traces).Error
	return traces, err
}

// List applies the AND-combined filters, counts the full match set, then
// returns one page ordered by the requested column with id as tie-breaker.
func (r *PropertyRepository) List(ctx context.Context, filter PropertyFilter) ([]PropertyRow, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.Property{}).
		Joins("LEFT JOIN owners ON owners.id = properties.owner_id")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"properties.name LIKE ? OR properties.code_internal LIKE ? OR properties.address LIKE ?",
			like, like, like)
	}
	if filter.YearFrom != nil {
		query = query.Where("properties.year >= ?", *filter.YearFrom)
	}
	if filter.YearTo != nil {
		query = query.Where("properties.year <= ?", *filter.YearTo)
	}
	if filter.MinPrice != nil {
		query = query.Where("properties.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("properties.price <= ?", *filter.MaxPrice)
	}
	if filter.WithImages != nil {
		if *filter.WithImages {
			query = query.Where(imageCountSub + " > 0")
		} else {
			query = query.Where(imageCountSub + " = 0")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[strings.ToLower(filter.SortBy)]
	if !ok {
		column = "properties.id"
	}
	order := column + " ASC"
	if filter.Desc {
		order = column + " DESC"
	}
	if column != "properties.id" {
		order += ", properties.id ASC"
	}

	offset := (filter.Page - 1) * filter.PageSize
	rows := []PropertyRow{}
	err := query.Select(propertyRowSelect).
		Order(order).
		Offset(offset).
		Limit(filter.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
