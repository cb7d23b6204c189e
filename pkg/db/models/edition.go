package models

import (
	"time"

	"github.com/google/uuid"
)

// Edition is a distributable Quran edition with a finite stock count.
type Edition struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Title       string         `gorm:"column:title;type:text;not null;uniqueIndex:ux_editions_title"`
	Writer      string         `gorm:"column:writer;type:text;not null"`
	Translation string         `gorm:"column:translation;type:text;not null"`
	Pages       int            `gorm:"column:pages;not null"`
	Stock       int            `gorm:"column:stock;not null;default:0"`
	Description *string        `gorm:"column:description;type:text"`
	Images      []EditionImage `gorm:"foreignKey:EditionID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// EditionImage stores a hosted image URL attached to an edition.
type EditionImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EditionID uuid.UUID `gorm:"column:edition_id;type:uuid;not null;index"`
	URL       string    `gorm:"column:url;type:text;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
