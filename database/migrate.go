package database

import (
	"github.com/BRIANBC93/RealEstate/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Owner{},
		&models.Property{},
		&models.PropertyImage{},
		&models.PropertyTrace{},
	)
}
