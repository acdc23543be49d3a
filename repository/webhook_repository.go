package repository

import (
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"

	"gorm.io/gorm"
)

type WebhookRepository struct {
	DB *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{DB: db}
}

// MarkProcessed inserts the event id inside the processing transaction. A
// re-delivered event hits the unique index before any state change commits.
func (r *WebhookRepository) MarkProcessed(tx *gorm.DB, eventID, event string) error {
	return tx.Create(&entity.WebhookEvent{EventID: eventID, Event: event}).Error
}

func (r *WebhookRepository) Seen(eventID string) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.WebhookEvent{}).Where("event_id = ?", eventID).Count(&cnt).Error
	return cnt > 0, err
}
