package entity

import (
	"gorm.io/gorm"
)

// WebhookEvent records a processed gateway event id. The unique index makes
// webhook re-delivery idempotent: the insert fails before any state change.
type WebhookEvent struct {
	gorm.Model
	EventID string `gorm:"uniqueIndex" json:"eventId"`
	Event   string `json:"event"`
}
