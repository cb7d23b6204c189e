package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
)

// Order is a public distribution request, optionally tied to one edition.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	FullName       string            `gorm:"column:full_name;type:text;not null"`
	Email          string            `gorm:"column:email;type:text;not null"`
	Phone          string            `gorm:"column:phone;type:text;not null"`
	CountryCode    string            `gorm:"column:country_code;type:text;not null"`
	Address        string            `gorm:"column:address;type:text;not null"`
	City           string            `gorm:"column:city;type:text;not null"`
	State          string            `gorm:"column:state;type:text;not null"`
	PostalCode     string            `gorm:"column:postal_code;type:text;not null"`
	Quantity       int               `gorm:"column:quantity;not null;default:1"`
	Note           *string           `gorm:"column:note;type:text"`
	EditionID      *uuid.UUID        `gorm:"column:edition_id;type:uuid;index"`
	Edition        *Edition          `gorm:"foreignKey:EditionID;constraint:OnDelete:RESTRICT"`
	Translation    string            `gorm:"column:translation;type:text;not null"`
	Status         enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TrackingNumber *string           `gorm:"column:tracking_number;type:text"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
