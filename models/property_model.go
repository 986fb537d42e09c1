package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property is a real-estate listing. RowVersion is the optimistic-lock
// counter: every successful write bumps it, and checked writes carry the
// expected value into the UPDATE's WHERE clause.
type Property struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	CodeInternal string          `json:"codeInternal" gorm:"size:64;not null;uniqueIndex"`
	Name         string          `json:"name" gorm:"size:200;not null"`
	Address      string          `json:"address" gorm:"size:300;not null"`
	Year         int             `json:"year" gorm:"not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	OwnerID      *uint           `json:"ownerId,omitempty" gorm:"index"`
	RowVersion   int64           `json:"-" gorm:"not null;default:1"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	Owner  *Owner          `json:"-" gorm:"foreignKey:OwnerID"`
	Images []PropertyImage `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Traces []PropertyTrace `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// PropertyImage is insert-only; the payload is kept base64-encoded in a
// text column.
type PropertyImage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID uint      `json:"propertyId" gorm:"not null;index"`
	Data       string    `json:"data" gorm:"type:text;not null"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}

// PropertyTrace is an append-only audit record: one row per actual price
// change. Rows are never updated or deleted while the property lives.
type PropertyTrace struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	PropertyID   uint            `json:"propertyId" gorm:"not null;index"`
	DateOfChange time.Time       `json:"dateOfChange" gorm:"not null"`
	Label        string          `json:"label" gorm:"size:200"`
	Value        decimal.Decimal `json:"value" gorm:"type:decimal(12,2);not null"`
	Tax          decimal.Decimal `json:"tax" gorm:"type:decimal(12,2);not null;default:0"`
}

func (PropertyTrace) TableName() string {
	return "property_traces"
}
