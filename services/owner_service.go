package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BRIANBC93/RealEstate/apperr"
	"github.com/BRIANBC93/RealEstate/models"
	"github.com/BRIANBC93/RealEstate/repositories"
	"gorm.io/gorm"
)

type CreateOwnerInput struct {
	Name     string
	Address  string
	Photo    string
	Birthday *time.Time
}

// OwnerView is the read projection returned by lookups.
type OwnerView struct {
	ID       uint       `json:"id"`
	Name     string     `json:"name"`
	Address  string     `json:"address,omitempty"`
	Birthday *time.Time `json:"birthday,omitempty"`
}

type OwnerService struct {
	owners *repositories.OwnerRepository
}

func NewOwnerService(owners *repositories.OwnerRepository) *OwnerService {
	return &OwnerService{owners: owners}
}

// CreateOwner trims the text fields and persists. Owner names are not
// unique.
func (s *OwnerService) CreateOwner(ctx context.Context, input CreateOwnerInput) (*models.Owner, error) {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)

	if name == "" {
		return nil, apperr.New(apperr.Validation, "name is required")
	}
	if len(name) > 200 {
		return nil, apperr.New(apperr.Validation, "name must be at most 200 characters")
	}
	if len(address) > 300 {
		return nil, apperr.New(apperr.Validation, "address must be at most 300 characters")
	}

	owner := models.Owner{
		Name:     name,
		Address:  address,
		Photo:    input.Photo,
		Birthday: input.Birthday,
	}
	if err := s.owners.Create(ctx, &owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

func (s *OwnerService) GetOwner(ctx context.Context, id uint) (*OwnerView, error) {
	owner, err := s.owners.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.NotFound, "owner %d not found", id)
		}
		return nil, err
	}
	return &OwnerView{
		ID:       owner.ID,
		Name:     owner.Name,
		Address:  owner.Address,
		Birthday: owner.Birthday,
	}, nil
}

func (s *OwnerService) ListOwners(ctx context.Context) ([]models.Owner, error) {
	return s.owners.GetAll(ctx)
}
