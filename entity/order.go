package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is an append-only fact: cancelling never mutates a row, it creates a
// new version under the same OrderCode. The authoritative current state for a
// code is the row with the maximum CreatedAt, resolved only through
// OrderRepository.LatestVersion.
type Order struct {
	gorm.Model
	OrderCode uuid.UUID   `gorm:"type:uuid;index" json:"orderCode"`
	Status    OrderStatus `json:"status"`

	UserID uint `json:"userId"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	DeliveryPartnerID *uint `json:"deliveryPartnerId,omitempty"`
	AssignedPersonID  *uint `json:"assignedPersonId,omitempty"`

	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2)" json:"totalAmount"`
	DeliveryAddress string          `gorm:"type:text" json:"deliveryAddress"`

	Payment PaymentInfo `gorm:"embedded" json:"payment"`

	// set when a delivery person returns to idle; cleanup deletes archived rows
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"-"`
}

// OrderVersion identifies one version of a logical order.
type OrderVersion struct {
	OrderCode uuid.UUID
	CreatedAt time.Time
}

func (o *Order) Version() OrderVersion {
	return OrderVersion{OrderCode: o.OrderCode, CreatedAt: o.CreatedAt}
}

// After reports whether v supersedes other. Versions of different codes are
// not comparable and always report false.
func (v OrderVersion) After(other OrderVersion) bool {
	if v.OrderCode != other.OrderCode {
		return false
	}
	return v.CreatedAt.After(other.CreatedAt)
}
