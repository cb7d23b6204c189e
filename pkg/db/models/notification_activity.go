package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
)

// NotificationActivity records every outbound notification attempt for the
// admin activity feed.
type NotificationActivity struct {
	ID        uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	EventType enums.NotificationEventType `gorm:"column:event_type;type:text;not null"`
	Title     string                      `gorm:"column:title;type:text;not null"`
	Message   string                      `gorm:"column:message;type:text;not null"`
	Metadata  json.RawMessage             `gorm:"column:metadata;type:jsonb"`
	SentTo    string                      `gorm:"column:sent_to;type:text;not null"`
	Status    enums.NotificationStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt time.Time                   `gorm:"column:created_at;autoCreateTime"`
}
