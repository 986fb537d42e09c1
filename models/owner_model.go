package models

import "time"

// Owner holds zero or more properties. Owners are never deleted, so the
// model carries no soft-delete column.
type Owner struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"size:200;not null"`
	Address   string     `json:"address,omitempty" gorm:"size:300"`
	Photo     string     `json:"photo,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	Properties []Property `json:"-" gorm:"foreignKey:OwnerID"`
}
