package entity

import (
	"gorm.io/gorm"
)

type DeliveryStatus string

const (
	DeliveryIdle     DeliveryStatus = "idle"
	DeliveryPickedUp DeliveryStatus = "picked_up"
	DeliveryDone     DeliveryStatus = "delivered"
	DeliveryReturned DeliveryStatus = "returned"
)

// deliveryTransitions is the explicit legal-transition table; any edge not
// listed is rejected.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryIdle:     {DeliveryPickedUp},
	DeliveryPickedUp: {DeliveryDone, DeliveryReturned},
	DeliveryDone:     {DeliveryIdle},
	DeliveryReturned: {DeliveryIdle},
}

func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, t := range deliveryTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ProjectedOrderStatus maps a delivery-person status onto the order status it
// drives. The zero value with ok=false means the status has no projection.
func (s DeliveryStatus) ProjectedOrderStatus() (OrderStatus, bool) {
	switch s {
	case DeliveryPickedUp:
		return OrderOutForDelivery, true
	case DeliveryDone:
		return OrderDelivered, true
	case DeliveryReturned:
		return OrderCancelled, true
	default:
		return "", false
	}
}

// DeliveryPerson holds at most one active assigned order; going idle requires
// the held order to be terminal.
type DeliveryPerson struct {
	gorm.Model
	UserID      uint           `json:"userId"`
	Name        string         `json:"name"`
	Status      DeliveryStatus `json:"status"`
	IsAvailable bool           `json:"isAvailable"`

	PartnerID uint            `json:"partnerId"`
	Partner   DeliveryPartner `json:"-"`

	AssignedOrderID *uint  `json:"assignedOrderId,omitempty"`
	AssignedOrder   *Order `gorm:"foreignKey:AssignedOrderID" json:"-"`
}
