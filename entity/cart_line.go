package entity

import (
	"gorm.io/gorm"
)

// CartLine is pre-order staging only: one row per (user, menu item), created
// on first add, incremented on repeat add, deleted at zero or on checkout.
type CartLine struct {
	gorm.Model
	UserID   uint `gorm:"uniqueIndex:idx_cart_user_item" json:"userId"`
	Quantity int  `json:"quantity"`

	MenuItemID uint     `gorm:"uniqueIndex:idx_cart_user_item" json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`

	AppliedCouponID *uint   `json:"appliedCouponId,omitempty"`
	AppliedCoupon   *Coupon `json:"-"`
}
