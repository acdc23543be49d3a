package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/gateway"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/notify"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeGateway is a scriptable in-process stand-in for the payment provider.
type fakeGateway struct {
	secret    string
	createErr error
	seq       int
	created   []string
	payments  map[string]*gateway.PaymentResult
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{secret: "whsec_test", payments: map[string]*gateway.PaymentResult{}}
}

func (f *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, _, _ string) (*gateway.CreateOrderResult, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	id := fmt.Sprintf("order_fake_%d", f.seq)
	f.created = append(f.created, id)
	return &gateway.CreateOrderResult{GatewayOrderID: id}, nil
}

func (f *fakeGateway) VerifySignature(payload []byte, signature string) bool {
	return gateway.VerifyHMAC(payload, signature, f.secret)
}

func (f *fakeGateway) FetchPayment(_ context.Context, paymentID string) (*gateway.PaymentResult, error) {
	res, ok := f.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("unknown payment %s", paymentID)
	}
	return res, nil
}

type testEnv struct {
	db *gorm.DB
	gw *fakeGateway

	cartRepo     *repository.CartRepository
	orderRepo    *repository.OrderRepository
	deliveryRepo *repository.DeliveryRepository

	cart       *CartService
	checkout   *CheckoutService
	orders     *OrderService
	coupons    *CouponService
	payments   *PaymentService
	assignment *AssignmentService
	delivery   *DeliveryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared-cache database coherent and doubles as
	// a tripwire: a read issued on the root handle while a transaction holds
	// the connection blocks instead of silently escaping the boundary.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Restaurant{}, &entity.MenuItem{},
		&entity.SavedAddress{},
		&entity.CartLine{},
		&entity.Coupon{}, &entity.CouponUsage{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.DeliveryPartner{}, &entity.DeliveryPerson{},
		&entity.WebhookEvent{},
	))

	log := zerolog.Nop()
	dispatcher := notify.Noop{}
	gw := newFakeGateway()
	cfg := gateway.Config{
		KeyID:         "key_test",
		WebhookSecret: gw.secret,
		Currency:      "INR",
		Timeout:       2 * time.Second,
	}

	cartRepo := repository.NewCartRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)

	coupons := NewCouponService(db, couponRepo)
	payments := NewPaymentService(db, orderRepo, webhookRepo, gw, cfg, dispatcher, log)

	return &testEnv{
		db:           db,
		gw:           gw,
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
		deliveryRepo: deliveryRepo,
		cart:         NewCartService(db, cartRepo, catalogRepo, coupons),
		checkout:     NewCheckoutService(db, orderRepo, cartRepo, catalogRepo, payments, dispatcher, log),
		orders:       NewOrderService(db, orderRepo, cartRepo, catalogRepo, dispatcher, log),
		coupons:      coupons,
		payments:     payments,
		assignment:   NewAssignmentService(db, orderRepo, deliveryRepo, catalogRepo, log),
		delivery:     NewDeliveryService(db, deliveryRepo, orderRepo, dispatcher, log),
	}
}

func customer(userID uint) entity.Principal {
	return entity.Principal{UserID: userID, Role: entity.RoleCustomer}
}

func owner(userID uint) entity.Principal {
	return entity.Principal{UserID: userID, Role: entity.RoleRestaurantOwner}
}

func partnerPrincipal(userID uint) entity.Principal {
	return entity.Principal{UserID: userID, Role: entity.RoleDeliveryPartner}
}

func personPrincipal(userID uint) entity.Principal {
	return entity.Principal{UserID: userID, Role: entity.RoleDeliveryPerson}
}

func (e *testEnv) seedRestaurant(t *testing.T, name string, ownerUserID uint) *entity.Restaurant {
	t.Helper()
	r := entity.Restaurant{Name: name, OwnerUserID: ownerUserID, IsApproved: true}
	require.NoError(t, e.db.Create(&r).Error)
	return &r
}

func (e *testEnv) seedItem(t *testing.T, restID uint, name, price string) *entity.MenuItem {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	item := entity.MenuItem{Name: name, Price: p, IsAvailable: true, RestaurantID: restID}
	require.NoError(t, e.db.Create(&item).Error)
	return &item
}

func (e *testEnv) seedAddress(t *testing.T, userID uint) *entity.SavedAddress {
	t.Helper()
	a := entity.SavedAddress{UserID: userID, Label: "home", Text: "12 Test Lane"}
	require.NoError(t, e.db.Create(&a).Error)
	return &a
}

func (e *testEnv) seedFleet(t *testing.T, partnerUser, personUser uint, maxOrders int, rests ...*entity.Restaurant) (*entity.DeliveryPartner, *entity.DeliveryPerson) {
	t.Helper()
	partner := entity.DeliveryPartner{UserID: partnerUser, Name: "Fleet", MaxOrders: maxOrders}
	for _, r := range rests {
		partner.AssignedRestaurants = append(partner.AssignedRestaurants, *r)
	}
	require.NoError(t, e.deliveryRepo.CreatePartner(&partner))

	person := entity.DeliveryPerson{
		UserID:      personUser,
		Name:        "Rider",
		Status:      entity.DeliveryIdle,
		IsAvailable: true,
		PartnerID:   partner.ID,
	}
	require.NoError(t, e.deliveryRepo.CreatePerson(&person))
	return &partner, &person
}

// checkoutOne drives a full add-to-cart plus checkout for a single item and
// returns the created order.
func (e *testEnv) checkoutOne(t *testing.T, user uint, item *entity.MenuItem, qty int, method string) *entity.Order {
	t.Helper()
	require.NoError(t, e.cart.Add(customer(user), item.ID, qty))
	addr := e.seedAddress(t, user)
	out, err := e.checkout.Checkout(customer(user), &CheckoutReq{AddressID: addr.ID, PaymentMethod: method})
	require.NoError(t, err)
	require.Len(t, out.Orders, 1)
	return &out.Orders[0]
}

func (e *testEnv) reloadOrder(t *testing.T, id uint) *entity.Order {
	t.Helper()
	o, err := e.orderRepo.GetOrder(e.db, id)
	require.NoError(t, err)
	return o
}

func (e *testEnv) setOrderStatus(t *testing.T, id uint, status entity.OrderStatus) {
	t.Helper()
	require.NoError(t, e.db.Model(&entity.Order{}).Where("id = ?", id).Update("status", status).Error)
}
