package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `json:"name"`
	OwnerUserID uint   `json:"ownerUserId"`
	IsApproved  bool   `json:"isApproved"`

	MenuItems []MenuItem `json:"-"`

	// preload only on assignment paths
	DeliveryPartners []DeliveryPartner `gorm:"many2many:restaurant_delivery_partners;" json:"-"`
}
