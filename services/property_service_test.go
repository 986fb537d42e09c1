package services_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/BRIANBC93/RealEstate/apperr"
	"github.com/BRIANBC93/RealEstate/models"
	"github.com/BRIANBC93/RealEstate/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createProperty(t *testing.T, svc *services.PropertyService, code string, price int64, year int) *models.Property {
	t.Helper()
	property, err := svc.CreateProperty(context.Background(), services.CreatePropertyInput{
		CodeInternal: code,
		Name:         "House " + code,
		Address:      "1 Test Street",
		Year:         year,
		Price:        decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return property
}

func traceCount(t *testing.T, db *gorm.DB, propertyID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.PropertyTrace{}).
		Where("property_id = ?", propertyID).Count(&count).Error)
	return count
}

func TestCreatePropertyRoundTrip(t *testing.T) {
	svc, owners, _ := newServices(t)
	ctx := context.Background()

	owner, err := owners.CreateOwner(ctx, services.CreateOwnerInput{Name: "Holder"})
	require.NoError(t, err)

	created, err := svc.CreateProperty(ctx, services.CreatePropertyInput{
		CodeInternal: "  PROP-001  ",
		Name:         " Beach House ",
		Address:      " 7 Shore Road ",
		Year:         1995,
		Price:        decimal.NewFromFloat(250000.50),
		OwnerID:      &owner.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	view, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "PROP-001", view.CodeInternal)
	assert.Equal(t, "Beach House", view.Name)
	assert.Equal(t, "7 Shore Road", view.Address)
	assert.Equal(t, 1995, view.Year)
	assert.True(t, view.Price.Equal(decimal.NewFromFloat(250000.50)), "price %s", view.Price)
	require.NotNil(t, view.OwnerID)
	assert.Equal(t, owner.ID, *view.OwnerID)
	assert.Equal(t, "Holder", view.OwnerName)
	assert.Equal(t, int64(0), view.ImageCount)
	assert.NotEmpty(t, view.VersionToken)
}

func TestCreatePropertyDuplicateCode(t *testing.T) {
	svc, _, _ := newServices(t)

	createProperty(t, svc, "DUP-01", 100000, 1990)

	_, err := svc.CreateProperty(context.Background(), services.CreatePropertyInput{
		CodeInternal: "DUP-01",
		Name:         "Second",
		Address:      "2 Other Street",
		Year:         2000,
		Price:        decimal.NewFromInt(1),
	})
	assert.True(t, apperr.IsDuplicate(err))
}

func TestCreatePropertyYearBounds(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()
	nextYear := time.Now().UTC().Year() + 1

	_, err := svc.CreateProperty(ctx, services.CreatePropertyInput{
		CodeInternal: "YR-LOW", Name: "n", Address: "a", Year: 1799, Price: decimal.NewFromInt(1),
	})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateProperty(ctx, services.CreatePropertyInput{
		CodeInternal: "YR-HIGH", Name: "n", Address: "a", Year: nextYear + 1, Price: decimal.NewFromInt(1),
	})
	assert.True(t, apperr.IsValidation(err))

	// boundary years are valid
	createProperty(t, svc, "YR-1800", 1, 1800)
	createProperty(t, svc, "YR-NEXT", 1, nextYear)
}

func TestCreatePropertyOwnerMustExist(t *testing.T) {
	svc, _, _ := newServices(t)
	missing := uint(424242)

	_, err := svc.CreateProperty(context.Background(), services.CreatePropertyInput{
		CodeInternal: "OWN-01",
		Name:         "n",
		Address:      "a",
		Year:         1990,
		Price:        decimal.NewFromInt(1),
		OwnerID:      &missing,
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreatePropertyPriceBounds(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	_, err := svc.CreateProperty(ctx, services.CreatePropertyInput{
		CodeInternal: "PR-NEG", Name: "n", Address: "a", Year: 1990,
		Price: decimal.NewFromInt(-1),
	})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateProperty(ctx, services.CreatePropertyInput{
		CodeInternal: "PR-BIG", Name: "n", Address: "a", Year: 1990,
		Price: decimal.NewFromInt(1_000_000_000),
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdateProperty(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	created := createProperty(t, svc, "UPD-01", 100000, 1990)
	view, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)

	err = svc.UpdateProperty(ctx, created.ID, services.UpdatePropertyInput{
		Name:         "Renamed",
		Address:      "9 New Road",
		Year:         2001,
		VersionToken: view.VersionToken,
	})
	require.NoError(t, err)

	updated, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "9 New Road", updated.Address)
	assert.Equal(t, 2001, updated.Year)
	assert.NotEqual(t, view.VersionToken, updated.VersionToken)
}

func TestUpdatePropertyStaleToken(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	created := createProperty(t, svc, "UPD-02", 100000, 1990)
	view, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)

	input := services.UpdatePropertyInput{
		Name: "First", Address: "1 Road", Year: 1991, VersionToken: view.VersionToken,
	}
	require.NoError(t, svc.UpdateProperty(ctx, created.ID, input))

	// same token again is now stale
	input.Name = "Second"
	err = svc.UpdateProperty(ctx, created.ID, input)
	assert.True(t, apperr.IsConflict(err))

	unchanged, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", unchanged.Name)
}

func TestUpdatePropertyNotFound(t *testing.T) {
	svc, _, _ := newServices(t)

	err := svc.UpdateProperty(context.Background(), 9999, services.UpdatePropertyInput{
		Name: "n", Address: "a", Year: 1990,
		VersionToken: services.EncodeVersionToken(1),
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdatePropertyTokenRequired(t *testing.T) {
	svc, _, _ := newServices(t)
	created := createProperty(t, svc, "UPD-03", 100000, 1990)

	err := svc.UpdateProperty(context.Background(), created.ID, services.UpdatePropertyInput{
		Name: "n", Address: "a", Year: 1990,
	})
	assert.True(t, apperr.IsValidation(err))

	err = svc.UpdateProperty(context.Background(), created.ID, services.UpdatePropertyInput{
		Name: "n", Address: "a", Year: 1990, VersionToken: "not base64 !!",
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestChangePriceWritesTrace(t *testing.T) {
	svc, _, db := newServices(t)
	ctx := context.Background()

	created := createProperty(t, svc, "PRC-01", 100000, 1990)

	err := svc.ChangePrice(ctx, created.ID, services.ChangePriceInput{
		NewPrice:  decimal.NewFromInt(120000),
		ChangedBy: "agent-smith",
	})
	require.NoError(t, err)

	view, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, view.Price.Equal(decimal.NewFromInt(120000)))

	traces, err := svc.ListTraces(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, traces, 1)
	assert.Equal(t, "agent-smith", traces[0].Label)
	assert.True(t, traces[0].Value.Equal(decimal.NewFromInt(120000)))
	assert.True(t, traces[0].Tax.Equal(decimal.Zero))
	assert.Equal(t, int64(1), traceCount(t, db, created.ID))
}

func TestChangePriceDefaultLabel(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	created := createProperty(t, svc, "PRC-02", 100000, 1990)
	require.NoError(t, svc.ChangePrice(ctx, created.ID, services.ChangePriceInput{
		NewPrice: decimal.NewFromInt(90000),
	}))

	traces, err := svc.ListTraces(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, traces, 1)
	assert.Equal(t, "Price change", traces[0].Label)
}

func TestChangePriceIdempotentOnEqualPrice(t *testing.T) {
	svc, _, db := newServices(t)
	ctx := context.Background()

	created := createProperty(t, svc, "PRC-03", 100000, 1990)
	before, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)

	err = svc.ChangePrice(ctx, created.ID, services.ChangePriceInput{
		NewPrice: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)

	after, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), traceCount(t, db, created.ID))
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt))
	assert.Equal(t, before.VersionToken, after.VersionToken)
}

func TestChangePriceStaleToken(t *testing.T) {
	svc, _, db := newServices(t)
	ctx := context.Background()

	created := createProperty(t, svc, "PRC-04", 100000, 1990)
	view, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)

	// bump the version so the captured token goes stale
	require.NoError(t, svc.UpdateProperty(ctx, created.ID, services.UpdatePropertyInput{
		Name: "n", Address: "a", Year: 1991, VersionToken: view.VersionToken,
	}))

	err = svc.ChangePrice(ctx, created.ID, services.ChangePriceInput{
		NewPrice:     decimal.NewFromInt(77777),
		VersionToken: &view.VersionToken,
	})
	assert.True(t, apperr.IsConflict(err))

	unchanged, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.Price.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, int64(0), traceCount(t, db, created.ID))
}

func TestChangePriceTokenOptional(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	created := createProperty(t, svc, "PRC-05", 100000, 1990)
	view, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)

	// a concurrent edit does not block a tokenless price change
	require.NoError(t, svc.UpdateProperty(ctx, created.ID, services.UpdatePropertyInput{
		Name: "n", Address: "a", Year: 1991, VersionToken: view.VersionToken,
	}))
	require.NoError(t, svc.ChangePrice(ctx, created.ID, services.ChangePriceInput{
		NewPrice: decimal.NewFromInt(111111),
	}))
}

func TestChangePriceNotFound(t *testing.T) {
	svc, _, _ := newServices(t)

	err := svc.ChangePrice(context.Background(), 9999, services.ChangePriceInput{
		NewPrice: decimal.NewFromInt(1),
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestAddImage(t *testing.T) {
	svc, _, db := newServices(t)
	ctx := context.Background()

	created := createProperty(t, svc, "IMG-01", 100000, 1990)

	err := svc.AddImage(ctx, created.ID, nil, true)
	assert.True(t, apperr.IsValidation(err))

	err = svc.AddImage(ctx, 9999, []byte{0x1}, true)
	assert.True(t, apperr.IsNotFound(err))

	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	require.NoError(t, svc.AddImage(ctx, created.ID, payload, true))

	view, err := svc.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.ImageCount)

	var image models.PropertyImage
	require.NoError(t, db.Where("property_id = ?", created.ID).First(&image).Error)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), image.Data)
	assert.True(t, image.Enabled)
}

func TestGetPropertyNotFound(t *testing.T) {
	svc, _, _ := newServices(t)

	_, err := svc.GetProperty(context.Background(), 9999)
	assert.True(t, apperr.IsNotFound(err))
}

func TestListPropertiesPaginationAndSort(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	for i := 1; i <= 35; i++ {
		createProperty(t, svc, fmt.Sprintf("LST-%02d", i), int64(1000*i), 1950+i)
	}

	result, err := svc.ListProperties(ctx, services.ListPropertiesInput{
		SortBy: "price", Desc: true, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(35), result.Total)
	require.Len(t, result.Items, 10)
	first := result.Items[0].Price
	last := result.Items[len(result.Items)-1].Price
	assert.True(t, first.GreaterThanOrEqual(last))
	assert.True(t, first.Equal(decimal.NewFromInt(35000)))

	// last page holds the remainder
	result, err = svc.ListProperties(ctx, services.ListPropertiesInput{
		Page: 4, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 5)

	// page below 1 clamps up, oversized pageSize clamps down
	result, err = svc.ListProperties(ctx, services.ListPropertiesInput{
		Page: 0, PageSize: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 200, result.PageSize)
	assert.Len(t, result.Items, 35)

	// unknown sort key falls back to id ascending
	result, err = svc.ListProperties(ctx, services.ListPropertiesInput{
		SortBy: "bogus", Page: 1, PageSize: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "LST-01", result.Items[0].CodeInternal)
}

func TestListPropertiesFilters(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	createProperty(t, svc, "FLT-A", 50000, 1900)
	createProperty(t, svc, "FLT-B", 150000, 1950)
	c := createProperty(t, svc, "FLT-C", 250000, 2000)
	require.NoError(t, svc.AddImage(ctx, c.ID, []byte{0x1}, true))

	// substring search matches name, code or address
	result, err := svc.ListProperties(ctx, services.ListPropertiesInput{Search: "FLT-B"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	yearFrom, yearTo := 1900, 1950
	result, err = svc.ListProperties(ctx, services.ListPropertiesInput{
		YearFrom: &yearFrom, YearTo: &yearTo,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	minPrice := decimal.NewFromInt(150000)
	maxPrice := decimal.NewFromInt(250000)
	result, err = svc.ListProperties(ctx, services.ListPropertiesInput{
		MinPrice: &minPrice, MaxPrice: &maxPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	withImages := true
	result, err = svc.ListProperties(ctx, services.ListPropertiesInput{WithImages: &withImages})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	assert.Equal(t, "FLT-C", result.Items[0].CodeInternal)
	assert.Equal(t, int64(1), result.Items[0].ImageCount)

	withImages = false
	result, err = svc.ListProperties(ctx, services.ListPropertiesInput{WithImages: &withImages})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	for _, item := range result.Items {
		assert.Equal(t, int64(0), item.ImageCount)
	}
}

func TestListTracesNotFound(t *testing.T) {
	svc, _, _ := newServices(t)

	_, err := svc.ListTraces(context.Background(), 9999)
	assert.True(t, apperr.IsNotFound(err))
}
