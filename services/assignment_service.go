package services

import (
	"errors"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// AssignmentService matches orders to delivery partners (capacity-bounded)
// and then to delivery persons (availability-bounded). Every check-then-act
// sequence runs inside one transaction so exactly one concurrent assignment
// wins and the loser observes updated state.
type AssignmentService struct {
	DB          *gorm.DB
	OrderRepo   *repository.OrderRepository
	Delivery    *repository.DeliveryRepository
	CatalogRepo *repository.CatalogRepository
	Log         zerolog.Logger
}

func NewAssignmentService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	delivery *repository.DeliveryRepository,
	catalogRepo *repository.CatalogRepository,
	log zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		DB:          db,
		OrderRepo:   orderRepo,
		Delivery:    delivery,
		CatalogRepo: catalogRepo,
		Log:         log,
	}
}

type PartnerAssignmentOut struct {
	Assigned  bool  `json:"assigned"`
	PartnerID *uint `json:"partnerId,omitempty"`
}

// AssignDeliveryPartner walks the restaurant's linked partners and stamps the
// first one with remaining capacity onto the order. When none has capacity
// the order stays unassigned; it is not queued, the caller retries.
func (s *AssignmentService) AssignDeliveryPartner(p entity.Principal, orderID uint) (*PartnerAssignmentOut, error) {
	if !p.Is(entity.RoleRestaurantOwner, entity.RoleAdmin) {
		return nil, apperr.ErrForbiddenRole
	}

	out := &PartnerAssignmentOut{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.OrderRepo.GetOrder(tx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		rest, err := s.CatalogRepo.GetRestaurant(tx, o.RestaurantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrRestaurantNotFound
		}
		if err != nil {
			return err
		}

		for i := range rest.DeliveryPartners {
			partner := &rest.DeliveryPartners[i]
			active, err := s.Delivery.ActiveOrdersCount(tx, partner.ID)
			if err != nil {
				return err
			}
			if active < int64(partner.MaxOrders) {
				if err := s.OrderRepo.SetDeliveryPartner(tx, o.ID, partner.ID); err != nil {
					return err
				}
				id := partner.ID
				out.Assigned = true
				out.PartnerID = &id
				return nil
			}
		}
		// No partner has capacity: a recorded no-op, not an error.
		s.Log.Info().Uint("order_id", orderID).Msg("no delivery partner with capacity")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type AssignPersonReq struct {
	OrderID      uint  `json:"orderId" binding:"required"`
	PersonID     uint  `json:"personId" binding:"required"`
	RestaurantID *uint `json:"restaurantId"`
}

// AssignToPerson hands the order to one of the partner's delivery persons.
// Preconditions, each with its own reported condition: the caller owns the
// partner, the partner has capacity, the person belongs to the partner and is
// available, the order is not already out for delivery, and a restaurant the
// order references is in the partner's assigned set (explicit selection
// disambiguates multi-restaurant orders).
func (s *AssignmentService) AssignToPerson(p entity.Principal, req *AssignPersonReq) error {
	if !p.Is(entity.RoleDeliveryPartner) {
		return apperr.ErrForbiddenRole
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		partner, err := s.Delivery.GetPartnerByUser(tx, p.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrPartnerNotFound
		}
		if err != nil {
			return err
		}

		o, err := s.OrderRepo.GetOrder(tx, req.OrderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if o.Status == entity.OrderOutForDelivery {
			return apperr.ErrAlreadyOutForDelivery
		}
		if o.Status.IsTerminal() {
			return apperr.WithMessage(apperr.ErrAlreadyFinalized, "order is already %s", o.Status)
		}

		restIDs, err := s.OrderRepo.RestaurantIDsForOrder(tx, o)
		if err != nil {
			return err
		}
		selected := restIDs[0]
		if len(restIDs) > 1 {
			if req.RestaurantID == nil {
				return apperr.ErrAmbiguousRestaurant
			}
			found := false
			for _, id := range restIDs {
				if id == *req.RestaurantID {
					found = true
					break
				}
			}
			if !found {
				return apperr.ErrRestaurantChoice
			}
			selected = *req.RestaurantID
		} else if req.RestaurantID != nil && *req.RestaurantID != selected {
			return apperr.ErrRestaurantChoice
		}

		// Authorized iff the selected restaurant is in the partner's set,
		// independent of how many restaurants the order spans.
		serves, err := s.Delivery.PartnerServesRestaurant(tx, partner.ID, selected)
		if err != nil {
			return err
		}
		if !serves {
			return apperr.ErrRestaurantNotAuthorized
		}

		active, err := s.Delivery.ActiveOrdersCount(tx, partner.ID)
		if err != nil {
			return err
		}
		if active >= int64(partner.MaxOrders) {
			return apperr.WithMessage(apperr.ErrCapacityExceeded,
				"partner holds %d of %d orders", active, partner.MaxOrders)
		}

		person, err := s.Delivery.GetPerson(tx, req.PersonID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrPersonNotFound
		}
		if err != nil {
			return err
		}
		if person.PartnerID != partner.ID {
			return apperr.WithMessage(apperr.ErrPersonNotFound, "delivery person does not belong to this partner")
		}
		if !person.IsAvailable || person.AssignedOrderID != nil {
			return apperr.ErrPersonNotAvailable
		}

		// Conditional claim: the race loser sees zero rows.
		claimed, err := s.Delivery.ClaimPerson(tx, person.ID, o.ID)
		if err != nil {
			return err
		}
		if claimed == 0 {
			return apperr.ErrPersonNotAvailable
		}

		moved, err := s.OrderRepo.AssignDelivery(tx, o.ID, partner.ID, person.ID)
		if err != nil {
			return err
		}
		if moved == 0 {
			return apperr.ErrAlreadyOutForDelivery
		}
		return nil
	})
}
