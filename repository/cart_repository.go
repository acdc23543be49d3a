package repository

import (
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{DB: db}
}

// Upsert creates the (user, menu item) line or bumps its quantity; the unique
// index keeps concurrent adds to one row.
func (r *CartRepository) Upsert(tx *gorm.DB, userID, menuItemID uint, qty int) error {
	line := entity.CartLine{UserID: userID, MenuItemID: menuItemID, Quantity: qty}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "menu_item_id"}},
		DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("quantity + ?", qty)}),
	}).Create(&line).Error
}

// GetOrCreate restores a quantity during cancellation: create the line or
// increment the existing one.
func (r *CartRepository) GetOrCreate(tx *gorm.DB, userID, menuItemID uint, qty int) error {
	return r.Upsert(tx, userID, menuItemID, qty)
}

func (r *CartRepository) ListForUser(userID uint) ([]entity.CartLine, error) {
	var lines []entity.CartLine
	err := r.DB.
		Preload("MenuItem").
		Preload("MenuItem.Restaurant").
		Preload("AppliedCoupon").
		Where("user_id = ?", userID).
		Order("id").
		Find(&lines).Error
	return lines, err
}

func (r *CartRepository) GetLineForUser(userID, lineID uint) (*entity.CartLine, error) {
	var line entity.CartLine
	if err := r.DB.Preload("MenuItem").Where("id = ? AND user_id = ?", lineID, userID).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *CartRepository) UpdateQuantity(tx *gorm.DB, lineID uint, qty int) error {
	return tx.Model(&entity.CartLine{}).Where("id = ?", lineID).Update("quantity", qty).Error
}

func (r *CartRepository) Delete(tx *gorm.DB, lineID uint) error {
	return tx.Unscoped().Delete(&entity.CartLine{}, lineID).Error
}

func (r *CartRepository) DeleteLines(tx *gorm.DB, lineIDs []uint) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return tx.Unscoped().Where("id IN ?", lineIDs).Delete(&entity.CartLine{}).Error
}

// StampCoupon sets (or clears, with nil) the applied coupon on every current
// line of the user's cart.
func (r *CartRepository) StampCoupon(tx *gorm.DB, userID uint, couponID *uint) error {
	return tx.Model(&entity.CartLine{}).Where("user_id = ?", userID).
		Update("applied_coupon_id", couponID).Error
}
