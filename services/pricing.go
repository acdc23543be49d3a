package services

import (
	"github.com/shopspring/decimal"
)

// LineTotal is price * quantity, quantized to 2 decimals.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// DiscountedTotal applies a percent discount to a subtotal:
// subtotal - round(percent/100 * subtotal, 2). Shared by cart listing and
// order-total computation so the two can never drift.
func DiscountedTotal(subtotal, percent decimal.Decimal) decimal.Decimal {
	discount := percent.Div(decimal.NewFromInt(100)).Mul(subtotal).Round(2)
	return subtotal.Sub(discount)
}
