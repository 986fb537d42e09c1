package database

import (
	"github.com/BRIANBC93/RealEstate/config"
	"github.com/BRIANBC93/RealEstate/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser creates the configured admin account on first boot so the
// login endpoint has a user to authenticate against.
func SeedAdminUser(db *gorm.DB, cfg *config.Config, log *logrus.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", cfg.AdminUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Name:         "Administrator",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	log.WithField("username", user.Username).Info("seeded admin user")
	return nil
}
