package repositories

import (
	"context"

	"github.com/BRIANBC93/RealEstate/models"
	"gorm.io/gorm"
)

type OwnerRepository struct {
	DB *gorm.DB
}

func NewOwnerRepository(DB *gorm.DB) *OwnerRepository {
	return &OwnerRepository{DB: DB}
}

func (r *OwnerRepository) Create(ctx context.Context, owner *models.Owner) error {
	return r.DB.WithContext(ctx).Create(owner).Error
}

func (r *OwnerRepository) GetByID(ctx context.Context, id uint) (*models.Owner, error) {
	var owner models.Owner
	err := r.DB.WithContext(ctx).First(&owner, id).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *OwnerRepository) GetAll(ctx context.Context) ([]models.Owner, error) {
	var owners []models.Owner
	err := r.DB.WithContext(ctx).Order("id").Find(&owners).Error
	return owners, err
}

func (r *OwnerRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Owner{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
