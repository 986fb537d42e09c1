package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/BRIANBC93/RealEstate/database"
	"github.com/BRIANBC93/RealEstate/repositories"
	"github.com/BRIANBC93/RealEstate/services"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newServices(t *testing.T) (*services.PropertyService, *services.OwnerService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	ownerRepo := repositories.NewOwnerRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)

	propertyService := services.NewPropertyService(propertyRepo, ownerRepo, nil, log)
	ownerService := services.NewOwnerService(ownerRepo)
	return propertyService, ownerService, db
}
