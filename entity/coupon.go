package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Coupon struct {
	gorm.Model
	Code            string          `gorm:"uniqueIndex" json:"code"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2)" json:"discountPercent"`
	StartTime       time.Time       `json:"startTime"`
	EndTime         time.Time       `json:"endTime"`
	IsActive        bool            `json:"isActive"`

	// optional scoping
	RestaurantID *uint `json:"restaurantId,omitempty"`
	MenuItemID   *uint `json:"menuItemId,omitempty"`
}

// AppliesTo reports whether the coupon's scope admits the given restaurant
// and menu item. An unscoped coupon applies everywhere.
func (cp *Coupon) AppliesTo(restaurantID, menuItemID uint) bool {
	if cp.RestaurantID != nil && *cp.RestaurantID != restaurantID {
		return false
	}
	if cp.MenuItemID != nil && *cp.MenuItemID != menuItemID {
		return false
	}
	return true
}

// CouponUsage enforces one use per (user, coupon) at the schema level.
type CouponUsage struct {
	gorm.Model
	UserID   uint `gorm:"uniqueIndex:idx_usage_user_coupon" json:"userId"`
	CouponID uint `gorm:"uniqueIndex:idx_usage_user_coupon" json:"couponId"`
}
