package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping and caller decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindForbiddenRole
	KindNotFound
	KindStateConflict
	KindPaymentFailure
	KindPaymentIndeterminate
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindForbiddenRole:
		return "FORBIDDEN_ROLE"
	case KindNotFound:
		return "NOT_FOUND"
	case KindStateConflict:
		return "STATE_CONFLICT"
	case KindPaymentFailure:
		return "PAYMENT_FAILURE"
	case KindPaymentIndeterminate:
		return "PAYMENT_INDETERMINATE"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error carries a taxonomy kind, a stable code and a human-readable message.
// It never wraps internal identifiers into the message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match two apperr values by code, so sentinel errors
// declared below compare equal to wrapped copies carrying extra detail.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Newf(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause while keeping the sentinel's kind and code.
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, cause: cause}
}

// WithMessage returns a copy of the sentinel with a more specific message,
// typically current-vs-requested state detail for StateConflict.
func WithMessage(sentinel *Error, format string, args ...any) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy kind, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Shared sentinels. Services return these (or WithMessage copies) so callers
// can branch with errors.Is instead of string matching.
var (
	ErrForbiddenRole = New(KindForbiddenRole, "FORBIDDEN_ROLE", "caller role is not allowed to perform this operation")

	ErrCartEmpty        = New(KindValidation, "CART_EMPTY", "cart is empty")
	ErrQuantityInvalid  = New(KindValidation, "INVALID_QUANTITY", "quantity must be at least 1")
	ErrAddressRequired  = New(KindValidation, "ADDRESS_REQUIRED", "a delivery address is required")
	ErrRestaurantChoice = New(KindValidation, "RESTAURANT_SELECTION_INVALID", "selected restaurant is not represented in the cart")

	ErrCartLineNotFound   = New(KindNotFound, "CART_LINE_NOT_FOUND", "cart line not found")
	ErrMenuItemNotFound   = New(KindNotFound, "MENU_ITEM_NOT_FOUND", "menu item not found")
	ErrRestaurantNotFound = New(KindNotFound, "RESTAURANT_NOT_FOUND", "restaurant not found")
	ErrAddressNotFound    = New(KindNotFound, "ADDRESS_NOT_FOUND", "address not found")
	ErrOrderNotFound      = New(KindNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrCouponNotFound     = New(KindNotFound, "COUPON_NOT_FOUND", "coupon not found")
	ErrPartnerNotFound    = New(KindNotFound, "PARTNER_NOT_FOUND", "delivery partner not found")
	ErrPersonNotFound     = New(KindNotFound, "PERSON_NOT_FOUND", "delivery person not found")

	ErrCouponInactive   = New(KindStateConflict, "COUPON_INACTIVE", "coupon is not active")
	ErrCouponExpired    = New(KindStateConflict, "COUPON_EXPIRED", "coupon is outside its validity window")
	ErrCouponUsed       = New(KindStateConflict, "COUPON_ALREADY_USED", "coupon has already been used by this user")
	ErrAlreadyFinalized = New(KindStateConflict, "ORDER_ALREADY_FINALIZED", "order is already in a terminal state")
	ErrNotCancellable   = New(KindStateConflict, "ORDER_NOT_CANCELLABLE", "order can no longer be cancelled")
	ErrIllegalTransition = New(KindStateConflict, "ILLEGAL_TRANSITION", "requested state transition is not allowed")
	ErrCapacityExceeded  = New(KindStateConflict, "CAPACITY_EXCEEDED", "delivery partner has no remaining capacity")
	ErrPersonNotAvailable = New(KindStateConflict, "PERSON_NOT_AVAILABLE", "delivery person is not available")
	ErrAlreadyOutForDelivery = New(KindStateConflict, "ORDER_ALREADY_OUT_FOR_DELIVERY", "order is already out for delivery")
	ErrRestaurantNotAuthorized = New(KindStateConflict, "RESTAURANT_NOT_AUTHORIZED", "restaurant is not served by this delivery partner")
	ErrAmbiguousRestaurant = New(KindStateConflict, "AMBIGUOUS_RESTAURANT", "order spans multiple restaurants; an explicit restaurant selection is required")

	ErrPaymentInitiationFailed = New(KindPaymentFailure, "PAYMENT_INITIATION_FAILED", "payment initiation failed")
	ErrPaymentIndeterminate    = New(KindPaymentIndeterminate, "PAYMENT_INDETERMINATE", "payment gateway result is uncertain; reconciliation required")
	ErrBadSignature            = New(KindValidation, "BAD_SIGNATURE", "webhook signature verification failed")
	ErrMalformedPayload        = New(KindValidation, "MALFORMED_PAYLOAD", "webhook payload could not be parsed")
)
