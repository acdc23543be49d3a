package repository

import (
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"

	"gorm.io/gorm"
)

type DeliveryRepository struct {
	DB *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{DB: db}
}

func (r *DeliveryRepository) GetPartner(tx *gorm.DB, partnerID uint) (*entity.DeliveryPartner, error) {
	var p entity.DeliveryPartner
	if err := tx.First(&p, partnerID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DeliveryRepository) GetPartnerByUser(tx *gorm.DB, userID uint) (*entity.DeliveryPartner, error) {
	var p entity.DeliveryPartner
	if err := tx.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ActiveOrdersCount counts the partner's concurrently non-terminal orders;
// run inside the assignment transaction so the capacity check and the
// assignment write are one unit.
func (r *DeliveryRepository) ActiveOrdersCount(tx *gorm.DB, partnerID uint) (int64, error) {
	var cnt int64
	err := tx.Model(&entity.Order{}).
		Where("delivery_partner_id = ? AND status IN ?", partnerID,
			[]entity.OrderStatus{entity.OrderConfirmed, entity.OrderPreparing, entity.OrderOutForDelivery}).
		Count(&cnt).Error
	return cnt, err
}

// PartnerServesRestaurant checks partner authorization: the selected
// restaurant must be a member of the partner's assigned set, independent of
// how many restaurants the order spans.
func (r *DeliveryRepository) PartnerServesRestaurant(tx *gorm.DB, partnerID, restaurantID uint) (bool, error) {
	var cnt int64
	err := tx.Table("restaurant_delivery_partners").
		Where("delivery_partner_id = ? AND restaurant_id = ?", partnerID, restaurantID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *DeliveryRepository) GetPerson(tx *gorm.DB, personID uint) (*entity.DeliveryPerson, error) {
	var p entity.DeliveryPerson
	if err := tx.First(&p, personID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DeliveryRepository) GetPersonByUser(tx *gorm.DB, userID uint) (*entity.DeliveryPerson, error) {
	var p entity.DeliveryPerson
	if err := tx.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DeliveryRepository) ListPersonsForPartner(partnerID uint) ([]entity.DeliveryPerson, error) {
	var out []entity.DeliveryPerson
	err := r.DB.Where("partner_id = ?", partnerID).Order("id").Find(&out).Error
	return out, err
}

// ClaimPerson marks the person busy with the order only if they are still
// available; RowsAffected==0 means another assignment won the race.
func (r *DeliveryRepository) ClaimPerson(tx *gorm.DB, personID, orderID uint) (int64, error) {
	res := tx.Model(&entity.DeliveryPerson{}).
		Where("id = ? AND is_available = ? AND assigned_order_id IS NULL", personID, true).
		Updates(map[string]any{"assigned_order_id": orderID, "is_available": false})
	return res.RowsAffected, res.Error
}

func (r *DeliveryRepository) SavePerson(tx *gorm.DB, p *entity.DeliveryPerson) error {
	return tx.Save(p).Error
}

func (r *DeliveryRepository) CreatePartner(p *entity.DeliveryPartner) error {
	return r.DB.Create(p).Error
}

func (r *DeliveryRepository) CreatePerson(p *entity.DeliveryPerson) error {
	return r.DB.Create(p).Error
}
