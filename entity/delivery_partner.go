package entity

import (
	"gorm.io/gorm"
)

// DeliveryPartner holds capacity-bounded assignments: it may carry at most
// MaxOrders concurrently non-terminal orders. The active count lives in the
// repository so the capacity check can share the assignment transaction.
type DeliveryPartner struct {
	gorm.Model
	UserID        uint   `json:"userId"`
	Name          string `json:"name"`
	VehicleNumber string `json:"vehicleNumber"`
	MaxOrders     int    `json:"maxOrders"`

	AssignedRestaurants []Restaurant `gorm:"many2many:restaurant_delivery_partners;" json:"-"`

	Persons []DeliveryPerson `gorm:"foreignKey:PartnerID" json:"-"`
}
