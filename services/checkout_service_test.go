package services

import (
	"errors"
	"testing"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutCreatesOrderAndConsumesCart(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	tikka := e.seedItem(t, rest.ID, "Paneer Tikka", "8.50")
	naan := e.seedItem(t, rest.ID, "Butter Naan", "1.50")
	addr := e.seedAddress(t, 1)

	require.NoError(t, e.cart.Add(customer(1), tikka.ID, 2))
	require.NoError(t, e.cart.Add(customer(1), naan.ID, 1))

	out, err := e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: addr.ID})
	require.NoError(t, err)
	require.Len(t, out.Orders, 1)

	o := out.Orders[0]
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.NotEqual(t, uuid.Nil, o.OrderCode)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("18.50")))
	assert.Equal(t, "12 Test Lane", o.DeliveryAddress)

	// Default method is cash on delivery, authorized immediately.
	stored := e.reloadOrder(t, o.ID)
	assert.Equal(t, entity.PaymentCashOnDelivery, stored.Payment.MethodType)
	assert.Equal(t, entity.PaymentAuthorized, stored.Payment.Status)
	assert.NotNil(t, stored.Payment.AuthorizedAt)

	// Items snapshot the catalog price at checkout time.
	items, err := e.orderRepo.GetOrderItems(e.db, o.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NoError(t, e.db.Model(tikka).Update("price", decimal.RequireFromString("99.00")).Error)
	items, err = e.orderRepo.GetOrderItems(e.db, o.ID)
	require.NoError(t, err)
	for _, it := range items {
		if it.MenuItemID == tikka.ID {
			assert.True(t, it.Price.Equal(decimal.RequireFromString("8.50")))
		}
	}

	// The cart is empty afterwards.
	groups, err := e.cart.List(customer(1))
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestCheckoutRejectsEmptyCartAndForeignAddress(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	item := e.seedItem(t, rest.ID, "Paneer Tikka", "8.50")
	addr := e.seedAddress(t, 1)
	otherAddr := e.seedAddress(t, 9)

	_, err := e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: addr.ID})
	assert.ErrorIs(t, err, apperr.ErrCartEmpty)

	require.NoError(t, e.cart.Add(customer(1), item.ID, 1))
	_, err = e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: otherAddr.ID})
	assert.ErrorIs(t, err, apperr.ErrAddressNotFound)

	_, err = e.checkout.Checkout(owner(2), &CheckoutReq{AddressID: addr.ID})
	assert.ErrorIs(t, err, apperr.ErrForbiddenRole)
}

func TestCheckoutMultiRestaurantCreatesOrderPerGroup(t *testing.T) {
	e := newTestEnv(t)
	r1 := e.seedRestaurant(t, "Spice Route", 2)
	r2 := e.seedRestaurant(t, "Noodle Bar", 3)
	i1 := e.seedItem(t, r1.ID, "Paneer Tikka", "8.50")
	i2 := e.seedItem(t, r2.ID, "Pad Thai", "9.00")
	addr := e.seedAddress(t, 1)

	require.NoError(t, e.cart.Add(customer(1), i1.ID, 1))
	require.NoError(t, e.cart.Add(customer(1), i2.ID, 2))

	out, err := e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: addr.ID})
	require.NoError(t, err)
	require.Len(t, out.Orders, 2)
	assert.Equal(t, r1.ID, out.Orders[0].RestaurantID)
	assert.Equal(t, r2.ID, out.Orders[1].RestaurantID)
	assert.True(t, out.Orders[0].TotalAmount.Equal(decimal.RequireFromString("8.50")))
	assert.True(t, out.Orders[1].TotalAmount.Equal(decimal.RequireFromString("18.00")))
	assert.NotEqual(t, out.Orders[0].OrderCode, out.Orders[1].OrderCode)
}

func TestCheckoutRestaurantSelectionLeavesOtherLines(t *testing.T) {
	e := newTestEnv(t)
	r1 := e.seedRestaurant(t, "Spice Route", 2)
	r2 := e.seedRestaurant(t, "Noodle Bar", 3)
	i1 := e.seedItem(t, r1.ID, "Paneer Tikka", "8.50")
	i2 := e.seedItem(t, r2.ID, "Pad Thai", "9.00")
	addr := e.seedAddress(t, 1)

	require.NoError(t, e.cart.Add(customer(1), i1.ID, 1))
	require.NoError(t, e.cart.Add(customer(1), i2.ID, 1))

	out, err := e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: addr.ID, RestaurantID: &r1.ID})
	require.NoError(t, err)
	require.Len(t, out.Orders, 1)
	assert.Equal(t, r1.ID, out.Orders[0].RestaurantID)

	// The other restaurant's lines survive for a later checkout.
	groups, err := e.cart.List(customer(1))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, r2.ID, groups[0].RestaurantID)

	// Selecting a restaurant with no cart lines is an input error.
	bogus := r1.ID + 100
	_, err = e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: addr.ID, RestaurantID: &bogus})
	assert.ErrorIs(t, err, apperr.ErrRestaurantChoice)
}

func TestCheckoutGatewayReturnsPaymentContext(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	item := e.seedItem(t, rest.ID, "Paneer Tikka", "8.50")
	addr := e.seedAddress(t, 1)
	require.NoError(t, e.cart.Add(customer(1), item.ID, 2))

	out, err := e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: addr.ID, PaymentMethod: "gateway"})
	require.NoError(t, err)
	require.Len(t, out.PaymentContexts, 1)

	ctx := out.PaymentContexts[0]
	assert.Equal(t, out.Orders[0].ID, ctx.OrderID)
	assert.Equal(t, "order_fake_1", ctx.GatewayOrderID)
	assert.Equal(t, "key_test", ctx.KeyID)
	assert.True(t, ctx.Amount.Equal(decimal.RequireFromString("17.00")))

	stored := e.reloadOrder(t, ctx.OrderID)
	assert.Equal(t, entity.PaymentAuthorized, stored.Payment.Status)
	assert.Equal(t, "order_fake_1", stored.Payment.GatewayOrderID)
	assert.Equal(t, 1, stored.Payment.Attempts)
}

func TestCheckoutGatewayRejectionLeavesFailedOrder(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	item := e.seedItem(t, rest.ID, "Paneer Tikka", "8.50")
	addr := e.seedAddress(t, 1)
	require.NoError(t, e.cart.Add(customer(1), item.ID, 1))

	e.gw.createErr = errors.New("card declined upstream")

	_, err := e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: addr.ID, PaymentMethod: "gateway"})
	require.ErrorIs(t, err, apperr.ErrPaymentInitiationFailed)

	// The order row survives with the failure recorded on it.
	orders, listErr := e.orderRepo.ListOrdersForUser(1, 10)
	require.NoError(t, listErr)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.PaymentFailed, orders[0].Payment.Status)
	require.NotNil(t, orders[0].Payment.LastError)
	assert.Equal(t, "gateway_rejected", orders[0].Payment.LastError.Code)
	assert.Contains(t, orders[0].Payment.LastError.Message, "card declined")
}

func TestCheckoutGatewayTimeoutStaysPending(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	item := e.seedItem(t, rest.ID, "Paneer Tikka", "8.50")
	addr := e.seedAddress(t, 1)
	require.NoError(t, e.cart.Add(customer(1), item.ID, 1))

	e.gw.createErr = apperr.ErrPaymentIndeterminate

	_, err := e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: addr.ID, PaymentMethod: "gateway"})
	require.ErrorIs(t, err, apperr.ErrPaymentIndeterminate)

	// Indeterminate is neither success nor failure: pending until reconciled.
	orders, listErr := e.orderRepo.ListOrdersForUser(1, 10)
	require.NoError(t, listErr)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.PaymentPending, orders[0].Payment.Status)
}

func TestCheckoutAppliedCouponFlowsIntoOrderTotal(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	item := e.seedItem(t, rest.ID, "Paneer Tikka", "10.00")
	addr := e.seedAddress(t, 1)

	require.NoError(t, e.cart.Add(customer(1), item.ID, 2))
	seedCoupon(t, e, "WELCOME10", "10")
	_, err := e.cart.ApplyCoupon(customer(1), "WELCOME10")
	require.NoError(t, err)

	out, err := e.checkout.Checkout(customer(1), &CheckoutReq{AddressID: addr.ID})
	require.NoError(t, err)
	require.Len(t, out.Orders, 1)
	assert.True(t, out.Orders[0].TotalAmount.Equal(decimal.RequireFromString("18.00")))
}
