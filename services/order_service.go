package services

import (
	"errors"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/notify"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type OrderService struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	CartRepo    *repository.CartRepository
	CatalogRepo *repository.CatalogRepository
	Notify      notify.Dispatcher
	Log         zerolog.Logger
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	catalogRepo *repository.CatalogRepository,
	dispatcher notify.Dispatcher,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		DB:          db,
		Repo:        repo,
		CartRepo:    cartRepo,
		CatalogRepo: catalogRepo,
		Notify:      dispatcher,
		Log:         log,
	}
}

func (s *OrderService) ListForUser(p entity.Principal, limit int) ([]entity.Order, error) {
	if !p.Is(entity.RoleCustomer) {
		return nil, apperr.ErrForbiddenRole
	}
	return s.Repo.ListOrdersForUser(p.UserID, limit)
}

type OrderDetail struct {
	Order entity.Order       `json:"order"`
	Items []entity.OrderItem `json:"items"`
}

func (s *OrderService) DetailForUser(p entity.Principal, orderID uint) (*OrderDetail, error) {
	o, err := s.Repo.GetOrderForUser(s.DB, p.UserID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.GetOrderItems(s.DB, o.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}

// ----- Owner actions -----

// OwnerConfirm is the restaurant's "mark ready": pending -> confirmed. The
// guarded update makes a stale or concurrent attempt observable as zero rows.
func (s *OrderService) OwnerConfirm(p entity.Principal, orderID uint) error {
	if !p.Is(entity.RoleRestaurantOwner, entity.RoleAdmin) {
		return apperr.ErrForbiddenRole
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrder(tx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if p.Role != entity.RoleAdmin {
			rest, err := s.CatalogRepo.GetRestaurant(tx, o.RestaurantID)
			if err != nil {
				return err
			}
			if rest.OwnerUserID != p.UserID {
				return apperr.ErrForbiddenRole
			}
		}

		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, entity.OrderPending, entity.OrderConfirmed)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.WithMessage(apperr.ErrIllegalTransition,
				"order is %s, expected %s", o.Status, entity.OrderPending)
		}

		s.Notify.Notify(o.UserID, "Order confirmed",
			"The restaurant has confirmed your order.", notify.KindOrderConfirmed,
			map[string]string{"order_code": o.OrderCode.String()})
		return nil
	})
}

func (s *OrderService) ListForRestaurant(p entity.Principal, restID uint, status *entity.OrderStatus, limit int) ([]entity.Order, error) {
	if !p.Is(entity.RoleRestaurantOwner, entity.RoleAdmin) {
		return nil, apperr.ErrForbiddenRole
	}
	if p.Role != entity.RoleAdmin {
		rest, err := s.CatalogRepo.GetRestaurant(s.DB, restID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrRestaurantNotFound
		}
		if err != nil {
			return nil, err
		}
		if rest.OwnerUserID != p.UserID {
			return nil, apperr.ErrForbiddenRole
		}
	}
	return s.Repo.ListOrdersForRestaurant(restID, status, limit)
}

// ----- Cancellation -----

// Cancel appends, it never mutates: the latest version for the order code is
// checked, the items flow back into the cart, and a new cancelled version
// with identical totals and copied items is created under the same code.
func (s *OrderService) Cancel(p entity.Principal, orderID uint) (*entity.Order, error) {
	if !p.Is(entity.RoleCustomer) {
		return nil, apperr.ErrForbiddenRole
	}

	var cancelled entity.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		requested, err := s.Repo.GetOrderForUser(tx, p.UserID, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		// The caller's copy may be stale; the latest version decides.
		latest, err := s.Repo.LatestVersion(tx, requested.OrderCode)
		if err != nil {
			return err
		}
		if latest.Status.IsTerminal() {
			return apperr.WithMessage(apperr.ErrAlreadyFinalized, "order is already %s", latest.Status)
		}
		if latest.Status != entity.OrderPending {
			return apperr.WithMessage(apperr.ErrNotCancellable,
				"order is %s; cancellable only while %s", latest.Status, entity.OrderPending)
		}

		items, err := s.Repo.GetOrderItems(tx, latest.ID)
		if err != nil {
			return err
		}

		// Restore quantities to the cart: get-or-create + increment.
		for _, item := range items {
			if err := s.CartRepo.GetOrCreate(tx, p.UserID, item.MenuItemID, item.Quantity); err != nil {
				return err
			}
		}

		cancelled = entity.Order{
			OrderCode:       latest.OrderCode,
			Status:          entity.OrderCancelled,
			UserID:          latest.UserID,
			RestaurantID:    latest.RestaurantID,
			TotalAmount:     latest.TotalAmount,
			DeliveryAddress: latest.DeliveryAddress,
			Payment:         latest.Payment,
		}
		if err := s.Repo.CreateOrder(tx, &cancelled); err != nil {
			return err
		}
		for _, item := range items {
			copyItem := entity.OrderItem{
				OrderID:    cancelled.ID,
				MenuItemID: item.MenuItemID,
				Quantity:   item.Quantity,
				Price:      item.Price,
			}
			if err := s.Repo.CreateOrderItem(tx, &copyItem); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notify.Notify(p.UserID, "Order cancelled",
		"Your order was cancelled and its items were returned to your cart.",
		notify.KindOrderCancelled,
		map[string]string{"order_code": cancelled.OrderCode.String()})
	return &cancelled, nil
}

// ----- Cleanup -----

// CleanupFinalized hard-deletes every version of each order code whose latest
// version is terminal. Explicit garbage collection, invoked by the user.
func (s *OrderService) CleanupFinalized(p entity.Principal) (int64, error) {
	if !p.Is(entity.RoleCustomer) {
		return 0, apperr.ErrForbiddenRole
	}

	var deleted int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		codes, err := s.Repo.DistinctOrderCodes(tx, p.UserID)
		if err != nil {
			return err
		}

		var deletable []uuid.UUID
		for _, code := range codes {
			latest, err := s.Repo.LatestVersion(tx, code)
			if err != nil {
				return err
			}
			if latest.Status.IsTerminal() {
				deletable = append(deletable, code)
			}
		}

		deleted, err = s.Repo.DeleteByOrderCodes(tx, p.UserID, deletable)
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
