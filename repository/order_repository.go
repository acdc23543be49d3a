package repository

import (
	"time"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetOrder(tx *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForUser(tx *gorm.DB, userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// LatestVersion resolves the authoritative current state for an order code:
// the row with the maximum created_at. All "latest state" reads go through
// here; callers never compare timestamps themselves.
func (r *OrderRepository) LatestVersion(tx *gorm.DB, orderCode uuid.UUID) (*entity.Order, error) {
	var o entity.Order
	err := tx.Where("order_code = ?", orderCode).
		Order("created_at DESC, id DESC").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListOrdersForUser(userID uint, limit int) ([]entity.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []entity.Order
	err := r.DB.Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *OrderRepository) ListOrdersForRestaurant(restID uint, status *entity.OrderStatus, limit int) ([]entity.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := r.DB.Where("restaurant_id = ?", restID)
	if status != nil {
		db = db.Where("status = ?", *status)
	}
	var out []entity.Order
	err := db.Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// UpdateStatusGuard flips status only when the row still holds the expected
// one; RowsAffected==0 means the caller lost a race or the transition was
// stale.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) Archive(tx *gorm.DB, orderID uint, at time.Time) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).
		Update("archived_at", at).Error
}

// DeleteByOrderCodes hard-deletes every version of the given codes for the
// user, order items included. Explicit garbage collection, never automatic.
func (r *OrderRepository) DeleteByOrderCodes(tx *gorm.DB, userID uint, codes []uuid.UUID) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	var ids []uint
	if err := tx.Model(&entity.Order{}).
		Where("user_id = ? AND order_code IN ?", userID, codes).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Unscoped().Where("order_id IN ?", ids).Delete(&entity.OrderItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Unscoped().Where("id IN ?", ids).Delete(&entity.Order{})
	return res.RowsAffected, res.Error
}

// DistinctOrderCodes lists every order code the user owns.
func (r *OrderRepository) DistinctOrderCodes(tx *gorm.DB, userID uint) ([]uuid.UUID, error) {
	var codes []uuid.UUID
	err := tx.Model(&entity.Order{}).
		Where("user_id = ?", userID).
		Distinct("order_code").
		Pluck("order_code", &codes).Error
	return codes, err
}

// ---------------- Order items ----------------

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) GetOrderItems(tx *gorm.DB, orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := tx.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

// RestaurantIDsForOrder collects every restaurant the order references,
// directly or through its items' menu entries.
func (r *OrderRepository) RestaurantIDsForOrder(tx *gorm.DB, o *entity.Order) ([]uint, error) {
	ids := []uint{o.RestaurantID}
	var itemRests []uint
	err := tx.Model(&entity.OrderItem{}).
		Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Where("order_items.order_id = ?", o.ID).
		Distinct("menu_items.restaurant_id").
		Pluck("menu_items.restaurant_id", &itemRests).Error
	if err != nil {
		return nil, err
	}
	for _, id := range itemRests {
		if id != o.RestaurantID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// AssignDelivery stamps the partner and person onto the order and moves it
// out for delivery, guarded against the order already being out or terminal.
func (r *OrderRepository) AssignDelivery(tx *gorm.DB, orderID, partnerID, personID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status NOT IN ?", orderID,
			[]entity.OrderStatus{entity.OrderOutForDelivery, entity.OrderDelivered, entity.OrderCancelled}).
		Updates(map[string]any{
			"delivery_partner_id": partnerID,
			"assigned_person_id":  personID,
			"status":              entity.OrderOutForDelivery,
		})
	return res.RowsAffected, res.Error
}

// SetDeliveryPartner records the partner-stage assignment without touching
// status.
func (r *OrderRepository) SetDeliveryPartner(tx *gorm.DB, orderID, partnerID uint) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).
		Update("delivery_partner_id", partnerID).Error
}

// ---------------- Payment sub-state ----------------

// GetOrderByGatewayOrderID maps a gateway order id back to the authoritative
// latest version of its order code. Cancellation copies payment state onto
// the appended version, so several rows can share the id.
func (r *OrderRepository) GetOrderByGatewayOrderID(tx *gorm.DB, gatewayOrderID string) (*entity.Order, error) {
	var o entity.Order
	if err := tx.Where("gateway_order_id = ?", gatewayOrderID).First(&o).Error; err != nil {
		return nil, err
	}
	return r.LatestVersion(tx, o.OrderCode)
}

func (r *OrderRepository) UpdatePaymentFields(tx *gorm.DB, orderID uint, fields map[string]any) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).Updates(fields).Error
}

func (r *OrderRepository) SaveOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Save(o).Error
}
