package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories emitted by the core
const (
	NotificationCategoryPreference = "preference"
	NotificationCategoryImport     = "import"
)

// Notification is an immutable record of a user-visible event. Exactly one is
// created per successful preference transition; delivery and read tracking
// belong to external collaborators.
type Notification struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_notifications_uuid" json:"uuid"`

	UserID   string `gorm:"size:64;not null;index:idx_notifications_user_id" json:"user_id"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Body     string `gorm:"type:text;not null" json:"body"`
	Category string `gorm:"size:50;not null;index:idx_notifications_category" json:"category"`

	IsRead    *bool     `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_notifications_created_at" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationFilter represents filter criteria for notification queries
type NotificationFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	UserID        *string
	Category      *string
	IsRead        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
