package services

import (
	"errors"
	"time"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/notify"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// DeliveryService runs the delivery person's state machine and projects it
// onto order status inside the same transaction.
type DeliveryService struct {
	DB        *gorm.DB
	Delivery  *repository.DeliveryRepository
	OrderRepo *repository.OrderRepository
	Notify    notify.Dispatcher
	Log       zerolog.Logger
}

func NewDeliveryService(
	db *gorm.DB,
	delivery *repository.DeliveryRepository,
	orderRepo *repository.OrderRepository,
	dispatcher notify.Dispatcher,
	log zerolog.Logger,
) *DeliveryService {
	return &DeliveryService{DB: db, Delivery: delivery, OrderRepo: orderRepo, Notify: dispatcher, Log: log}
}

// UpdateStatus applies one transition of the delivery person machine:
// idle -> picked_up -> {delivered | returned} -> idle. Any edge not in the
// table is rejected.
func (s *DeliveryService) UpdateStatus(p entity.Principal, next entity.DeliveryStatus) error {
	if !p.Is(entity.RoleDeliveryPerson, entity.RoleDeliveryPartner) {
		return apperr.ErrForbiddenRole
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		person, err := s.Delivery.GetPersonByUser(tx, p.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrPersonNotFound
		}
		if err != nil {
			return err
		}

		if !person.Status.CanTransitionTo(next) {
			return apperr.WithMessage(apperr.ErrIllegalTransition,
				"delivery status %s cannot move to %s", person.Status, next)
		}

		if next == entity.DeliveryIdle {
			if err := s.enterIdle(tx, person); err != nil {
				return err
			}
		} else {
			if err := s.projectOntoOrder(tx, person, next); err != nil {
				return err
			}
		}

		person.Status = next
		return s.Delivery.SavePerson(tx, person)
	})
}

// projectOntoOrder maps the person's new status onto the held order. A mapped
// target equal to the order's current status is a harmless no-op.
func (s *DeliveryService) projectOntoOrder(tx *gorm.DB, person *entity.DeliveryPerson, next entity.DeliveryStatus) error {
	if person.AssignedOrderID == nil {
		return apperr.WithMessage(apperr.ErrOrderNotFound, "no order assigned to this delivery person")
	}

	o, err := s.OrderRepo.GetOrder(tx, *person.AssignedOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	target, ok := next.ProjectedOrderStatus()
	if !ok {
		return nil
	}
	if o.Status == target {
		return nil // idempotent
	}
	if !o.Status.CanTransitionTo(target) {
		return apperr.WithMessage(apperr.ErrIllegalTransition,
			"order is %s and cannot move to %s", o.Status, target)
	}

	affected, err := s.OrderRepo.UpdateStatusGuard(tx, o.ID, o.Status, target)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.WithMessage(apperr.ErrIllegalTransition,
			"order status changed concurrently; retry")
	}

	switch target {
	case entity.OrderDelivered:
		// COD capture happens here and only here: cash changes hands at the
		// door.
		if o.Payment.MethodType == entity.PaymentCashOnDelivery && !o.Payment.IsSettled() {
			now := time.Now()
			if err := s.OrderRepo.UpdatePaymentFields(tx, o.ID, map[string]any{
				"payment_status":  entity.PaymentCaptured,
				"captured_at":     now,
				"amount_captured": o.TotalAmount,
			}); err != nil {
				return err
			}
		}
		s.Notify.Notify(o.UserID, "Order delivered",
			"Your order has been delivered.", notify.KindOrderDelivered,
			map[string]string{"order_code": o.OrderCode.String()})
	case entity.OrderCancelled:
		s.Notify.Notify(o.UserID, "Order returned",
			"Your order could not be delivered and was cancelled.", notify.KindOrderCancelled,
			map[string]string{"order_code": o.OrderCode.String()})
	}
	return nil
}

// enterIdle releases the person: legal only once the held order is terminal.
// The order is archived, not deleted. Cleanup owns deletion.
func (s *DeliveryService) enterIdle(tx *gorm.DB, person *entity.DeliveryPerson) error {
	if person.AssignedOrderID != nil {
		o, err := s.OrderRepo.GetOrder(tx, *person.AssignedOrderID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if o != nil {
			if !o.Status.IsTerminal() {
				return apperr.WithMessage(apperr.ErrIllegalTransition,
					"cannot go idle while assigned order is %s", o.Status)
			}
			if err := s.OrderRepo.Archive(tx, o.ID, time.Now()); err != nil {
				return err
			}
		}
	}

	person.AssignedOrderID = nil
	person.IsAvailable = true
	return nil
}
