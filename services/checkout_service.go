package services

import (
	"errors"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/notify"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CheckoutService struct {
	DB          *gorm.DB
	OrderRepo   *repository.OrderRepository
	CartRepo    *repository.CartRepository
	CatalogRepo *repository.CatalogRepository
	Payments    *PaymentService
	Notify      notify.Dispatcher
	Log         zerolog.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	catalogRepo *repository.CatalogRepository,
	payments *PaymentService,
	dispatcher notify.Dispatcher,
	log zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		DB:          db,
		OrderRepo:   orderRepo,
		CartRepo:    cartRepo,
		CatalogRepo: catalogRepo,
		Payments:    payments,
		Notify:      dispatcher,
		Log:         log,
	}
}

type CheckoutReq struct {
	AddressID     uint   `json:"addressId" binding:"required"`
	RestaurantID  *uint  `json:"restaurantId"`
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,oneof=cash_on_delivery gateway"`
}

// PaymentContext is what the client checkout widget needs; the gateway secret
// never appears here.
type PaymentContext struct {
	OrderID        uint            `json:"orderId"`
	GatewayOrderID string          `json:"gatewayOrderId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	KeyID          string          `json:"keyId"`
}

type CheckoutOut struct {
	Orders          []entity.Order   `json:"orders"`
	PaymentContexts []PaymentContext `json:"paymentContexts,omitempty"`
}

type cartGroup struct {
	restaurant entity.Restaurant
	lines      []entity.CartLine
}

// Checkout consumes the caller's whole cart: one order per restaurant group,
// price-snapshotted items, consumed lines deleted, all inside one
// transaction. Gateway initiation happens after commit; a gateway rejection
// leaves the order persisted as payment_status=failed with the structured
// error recorded (the documented "leave as failed consistently" choice).
func (s *CheckoutService) Checkout(p entity.Principal, req *CheckoutReq) (*CheckoutOut, error) {
	if !p.Is(entity.RoleCustomer) {
		return nil, apperr.ErrForbiddenRole
	}

	method := entity.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = entity.PaymentCashOnDelivery
	}

	lines, err := s.CartRepo.ListForUser(p.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperr.ErrCartEmpty
	}

	if req.AddressID == 0 {
		return nil, apperr.ErrAddressRequired
	}
	address, err := s.CatalogRepo.GetAddressForUser(p.UserID, req.AddressID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}

	// Partition by restaurant, preserving cart order.
	groups := make(map[uint]*cartGroup)
	var groupOrder []uint
	for _, line := range lines {
		rest := line.MenuItem.Restaurant
		g, ok := groups[rest.ID]
		if !ok {
			g = &cartGroup{restaurant: rest}
			groups[rest.ID] = g
			groupOrder = append(groupOrder, rest.ID)
		}
		g.lines = append(g.lines, line)
	}

	if req.RestaurantID != nil {
		g, ok := groups[*req.RestaurantID]
		if !ok {
			return nil, apperr.ErrRestaurantChoice
		}
		groups = map[uint]*cartGroup{*req.RestaurantID: g}
		groupOrder = []uint{*req.RestaurantID}
	}

	var created []entity.Order
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, restID := range groupOrder {
			g := groups[restID]

			total := decimal.Zero
			for _, line := range g.lines {
				lineTotal := LineTotal(line.MenuItem.Price, line.Quantity)
				if cp := line.AppliedCoupon; cp != nil && cp.AppliesTo(restID, line.MenuItemID) {
					lineTotal = DiscountedTotal(lineTotal, cp.DiscountPercent)
				}
				total = total.Add(lineTotal)
			}
			total = total.Round(2)

			order := entity.Order{
				OrderCode:       uuid.New(),
				Status:          entity.OrderPending,
				UserID:          p.UserID,
				RestaurantID:    restID,
				TotalAmount:     total,
				DeliveryAddress: address.Text,
				Payment: entity.PaymentInfo{
					MethodType:          method,
					Status:              entity.PaymentPending,
					MerchantReferenceID: uuid.New(),
					AmountAuthorized:    total,
					AmountCaptured:      decimal.Zero,
					AmountRefunded:      decimal.Zero,
				},
			}
			if err := s.OrderRepo.CreateOrder(tx, &order); err != nil {
				return err
			}

			for _, line := range g.lines {
				oi := entity.OrderItem{
					OrderID:    order.ID,
					MenuItemID: line.MenuItemID,
					Quantity:   line.Quantity,
					Price:      line.MenuItem.Price,
				}
				if err := s.OrderRepo.CreateOrderItem(tx, &oi); err != nil {
					return err
				}
			}

			consumed := make([]uint, 0, len(g.lines))
			for _, line := range g.lines {
				consumed = append(consumed, line.ID)
			}
			if err := s.CartRepo.DeleteLines(tx, consumed); err != nil {
				return err
			}

			created = append(created, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &CheckoutOut{}
	for i := range created {
		order := &created[i]

		if method == entity.PaymentCashOnDelivery {
			if err := s.Payments.AuthorizeCOD(order); err != nil {
				return nil, err
			}
		} else {
			ctx, err := s.Payments.Initiate(order)
			if err != nil {
				// The order survives as failed (or pending, if indeterminate)
				// with the structured error recorded; the caller inspects it.
				return nil, err
			}
			out.PaymentContexts = append(out.PaymentContexts, *ctx)
		}

		s.Notify.Notify(p.UserID, "Order placed",
			"Your order has been placed and is awaiting confirmation.",
			notify.KindOrderPlaced,
			map[string]string{"order_code": order.OrderCode.String()})
	}

	out.Orders = created
	return out, nil
}
