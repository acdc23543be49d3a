package entity

import (
	"gorm.io/gorm"
)

// SavedAddress is the caller-owned address book entry; orders snapshot its
// text, never reference it live.
type SavedAddress struct {
	gorm.Model
	UserID uint   `json:"userId"`
	Label  string `json:"label"`
	Text   string `gorm:"type:text" json:"text"`
}
