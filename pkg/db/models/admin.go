package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
)

// Admin is a back-office account with role-scoped permissions.
type Admin struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Email        string          `gorm:"column:email;type:text;not null;uniqueIndex:ux_admins_email"`
	FirstName    string          `gorm:"column:first_name;type:text;not null"`
	LastName     string          `gorm:"column:last_name;type:text;not null"`
	Role         enums.AdminRole `gorm:"column:role;type:text;not null;default:'manager'"`
	PasswordHash string          `gorm:"column:password_hash;type:text;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins the name parts for display.
func (a Admin) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
