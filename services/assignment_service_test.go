package services

import (
	"testing"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignDeliveryPartnerPicksFirstWithCapacity(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	item := e.seedItem(t, rest.ID, "Paneer Tikka", "8.50")

	full, _ := e.seedFleet(t, 50, 60, 1, rest)
	free, _ := e.seedFleet(t, 51, 61, 2, rest)

	// Saturate the first partner with one active order.
	busy := e.checkoutOne(t, 5, item, 1, "cash_on_delivery")
	e.setOrderStatus(t, busy.ID, entity.OrderConfirmed)
	require.NoError(t, e.orderRepo.SetDeliveryPartner(e.db, busy.ID, full.ID))

	o := e.checkoutOne(t, 1, item, 1, "cash_on_delivery")
	out, err := e.assignment.AssignDeliveryPartner(owner(2), o.ID)
	require.NoError(t, err)
	require.True(t, out.Assigned)
	assert.Equal(t, free.ID, *out.PartnerID)

	stored := e.reloadOrder(t, o.ID)
	require.NotNil(t, stored.DeliveryPartnerID)
	assert.Equal(t, free.ID, *stored.DeliveryPartnerID)
	// Partner-stage assignment does not move the status.
	assert.Equal(t, entity.OrderPending, stored.Status)
}

func TestAssignDeliveryPartnerNoCapacityIsRecordedNoOp(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	item := e.seedItem(t, rest.ID, "Paneer Tikka", "8.50")
	o := e.checkoutOne(t, 1, item, 1, "cash_on_delivery")

	out, err := e.assignment.AssignDeliveryPartner(owner(2), o.ID)
	require.NoError(t, err)
	assert.False(t, out.Assigned)
	assert.Nil(t, out.PartnerID)
	assert.Nil(t, e.reloadOrder(t, o.ID).DeliveryPartnerID)
}

func TestAssignToPersonHappyPath(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	item := e.seedItem(t, rest.ID, "Paneer Tikka", "8.50")
	partner, person := e.seedFleet(t, 50, 60, 3, rest)

	o := e.checkoutOne(t, 1, item, 1, "cash_on_delivery")
	e.setOrderStatus(t, o.ID, entity.OrderConfirmed)

	require.NoError(t, e.assignment.AssignToPerson(partnerPrincipal(50),
		&AssignPersonReq{OrderID: o.ID, PersonID: person.ID}))

	stored := e.reloadOrder(t, o.ID)
	assert.Equal(t, entity.OrderOutForDelivery, stored.Status)
	assert.Equal(t, partner.ID, *stored.DeliveryPartnerID)
	assert.Equal(t, person.ID, *stored.AssignedPersonID)

	claimed, err := e.deliveryRepo.GetPerson(e.db, person.ID)
	require.NoError(t, err)
	assert.False(t, claimed.IsAvailable)
	require.NotNil(t, claimed.AssignedOrderID)
	assert.Equal(t, o.ID, *claimed.AssignedOrderID)
}

func TestAssignToPersonCapacityBoundary(t *testing.T) {
	e := newTestEnv(t)
	rest := e.seedRestaurant(t, "Spice Route", 2)
	item := e.seedItem(t, rest.ID, "Paneer Tikka", "8.50")
	_, p1 := e.seedFleet(t, 50, 60, 1, rest)

	// First assignment consumes the single slot exactly at the boundary.
	o1 := e.checkoutOne(t, 1, item, 1, "cash_on_delivery")
	e.setOrderStatus(t, o1.ID, entity.OrderConfirmed)
	require.NoError(t, e.assignment.AssignToPerson(partnerPrincipal(50),
		&AssignPersonReq{OrderID: o1.ID, PersonID: p1.ID}))

	// A second person exists, but the partner is full.
	p2 := entity.DeliveryPerson{UserID: 61, Name: "Second", Status: entity.DeliveryIdle, IsAvailable: true, PartnerID: p1.PartnerID}
	require.NoError(t, e.deliveryRepo.CreatePerson(&p2))

	o2 := e.checkoutOne(t, 5, item, 1, "cash_on_delivery")
	e.setOrderStatus(t, o2.ID, entity.OrderConfirmed)
	err := e.assignment.AssignToPerson(partnerPrincipal(50),
		&AssignPersonReq{OrderID: o2.ID, PersonID: p2.ID})
	assert.ErrorIs(t, err, apperr.ErrCapacityExceeded)
}

func TestAssignToPersonPreconditionFailures(t *testing.T) {
	e := newTestEnv(t)
	r1 := e.seedRestaurant(t, "Spice Route", 2)
	r2 := e.seedRestaurant(t, "Noodle Bar", 3)
	item := e.seedItem(t, r1.ID, "Paneer Tikka", "8.50")
	_, person := e.seedFleet(t, 50, 60, 3, r1)
	_, otherPerson := e.seedFleet(t, 51, 61, 3, r2)

	o := e.checkoutOne(t, 1, item, 1, "cash_on_delivery")
	e.setOrderStatus(t, o.ID, entity.OrderConfirmed)

	// Caller role and partner registration.
	err := e.assignment.AssignToPerson(customer(1), &AssignPersonReq{OrderID: o.ID, PersonID: person.ID})
	assert.ErrorIs(t, err, apperr.ErrForbiddenRole)
	err = e.assignment.AssignToPerson(partnerPrincipal(99), &AssignPersonReq{OrderID: o.ID, PersonID: person.ID})
	assert.ErrorIs(t, err, apperr.ErrPartnerNotFound)

	// Unknown order.
	err = e.assignment.AssignToPerson(partnerPrincipal(50), &AssignPersonReq{OrderID: 9999, PersonID: person.ID})
	assert.ErrorIs(t, err, apperr.ErrOrderNotFound)

	// Partner not linked to the order's restaurant.
	err = e.assignment.AssignToPerson(partnerPrincipal(51), &AssignPersonReq{OrderID: o.ID, PersonID: otherPerson.ID})
	assert.ErrorIs(t, err, apperr.ErrRestaurantNotAuthorized)

	// Person belongs to a different partner.
	err = e.assignment.AssignToPerson(partnerPrincipal(50), &AssignPersonReq{OrderID: o.ID, PersonID: otherPerson.ID})
	assert.ErrorIs(t, err, apperr.ErrPersonNotFound)

	// Person marked unavailable.
	require.NoError(t, e.db.Model(person).Update("is_available", false).Error)
	err = e.assignment.AssignToPerson(partnerPrincipal(50), &AssignPersonReq{OrderID: o.ID, PersonID: person.ID})
	assert.ErrorIs(t, err, apperr.ErrPersonNotAvailable)
	require.NoError(t, e.db.Model(person).Update("is_available", true).Error)

	// Already out for delivery, then terminal.
	e.setOrderStatus(t, o.ID, entity.OrderOutForDelivery)
	err = e.assignment.AssignToPerson(partnerPrincipal(50), &AssignPersonReq{OrderID: o.ID, PersonID: person.ID})
	assert.ErrorIs(t, err, apperr.ErrAlreadyOutForDelivery)

	e.setOrderStatus(t, o.ID, entity.OrderDelivered)
	err = e.assignment.AssignToPerson(partnerPrincipal(50), &AssignPersonReq{OrderID: o.ID, PersonID: person.ID})
	assert.ErrorIs(t, err, apperr.ErrAlreadyFinalized)
}

func TestAssignToPersonMultiRestaurantSelection(t *testing.T) {
	e := newTestEnv(t)
	r1 := e.seedRestaurant(t, "Spice Route", 2)
	r2 := e.seedRestaurant(t, "Noodle Bar", 3)
	i1 := e.seedItem(t, r1.ID, "Paneer Tikka", "8.50")
	i2 := e.seedItem(t, r2.ID, "Pad Thai", "9.00")
	_, person := e.seedFleet(t, 50, 60, 3, r2)

	// An order whose items span two restaurants.
	o := e.checkoutOne(t, 1, i1, 1, "cash_on_delivery")
	e.setOrderStatus(t, o.ID, entity.OrderConfirmed)
	require.NoError(t, e.orderRepo.CreateOrderItem(e.db, &entity.OrderItem{
		OrderID: o.ID, MenuItemID: i2.ID, Quantity: 1, Price: i2.Price,
	}))

	// Without an explicit choice the assignment is ambiguous.
	err := e.assignment.AssignToPerson(partnerPrincipal(50),
		&AssignPersonReq{OrderID: o.ID, PersonID: person.ID})
	assert.ErrorIs(t, err, apperr.ErrAmbiguousRestaurant)

	// A choice outside the order's restaurants is rejected.
	bogus := r2.ID + 100
	err = e.assignment.AssignToPerson(partnerPrincipal(50),
		&AssignPersonReq{OrderID: o.ID, PersonID: person.ID, RestaurantID: &bogus})
	assert.ErrorIs(t, err, apperr.ErrRestaurantChoice)

	// Selecting the restaurant the partner serves authorizes the handoff.
	require.NoError(t, e.assignment.AssignToPerson(partnerPrincipal(50),
		&AssignPersonReq{OrderID: o.ID, PersonID: person.ID, RestaurantID: &r2.ID}))
	assert.Equal(t, entity.OrderOutForDelivery, e.reloadOrder(t, o.ID).Status)
}
