package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentGateway        PaymentMethod = "gateway"
)

type PaymentStatus string

const (
	PaymentPending         PaymentStatus = "pending"
	PaymentAuthorized      PaymentStatus = "authorized"
	PaymentCaptured        PaymentStatus = "captured"
	PaymentFailed          PaymentStatus = "failed"
	PaymentRefundInitiated PaymentStatus = "refund_initiated"
	PaymentRefunded        PaymentStatus = "refunded"
)

// PaymentError is the structured failure blob recorded on the order instead
// of an exception crossing the adapter boundary.
type PaymentError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Response  string `json:"response,omitempty"`
	Timestamp string `json:"timestamp"`
}

// PaymentInfo is the payment sub-state embedded in every order version.
// MerchantReferenceID is the idempotency key: generated once at order
// creation, never regenerated, so retried initiations reuse it.
type PaymentInfo struct {
	MethodType PaymentMethod `gorm:"column:payment_method_type" json:"paymentMethodType"`
	Status     PaymentStatus `gorm:"column:payment_status" json:"paymentStatus"`

	GatewayOrderID      string    `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID    string    `json:"gatewayPaymentId,omitempty"`
	GatewayReferenceID  string    `json:"gatewayReferenceId,omitempty"`
	MerchantReferenceID uuid.UUID `gorm:"type:uuid" json:"merchantReferenceId"`

	AuthorizedAt *time.Time `json:"authorizedAt,omitempty"`
	CapturedAt   *time.Time `json:"capturedAt,omitempty"`

	AmountAuthorized decimal.Decimal `gorm:"type:decimal(10,2)" json:"amountAuthorized"`
	AmountCaptured   decimal.Decimal `gorm:"type:decimal(10,2)" json:"amountCaptured"`
	AmountRefunded   decimal.Decimal `gorm:"type:decimal(10,2)" json:"amountRefunded"`

	Attempts  int           `gorm:"column:payment_attempts" json:"paymentAttempts"`
	LastError *PaymentError `gorm:"serializer:json" json:"lastError,omitempty"`
}

// IsSettled: no further capture action is owed.
func (p PaymentInfo) IsSettled() bool {
	return p.Status == PaymentCaptured || p.Status == PaymentRefunded
}
