package repository

import (
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"

	"gorm.io/gorm"
)

type CouponRepository struct {
	DB *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{DB: db}
}

func (r *CouponRepository) GetByCode(code string) (*entity.Coupon, error) {
	var cp entity.Coupon
	if err := r.DB.Where("code = ?", code).First(&cp).Error; err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r *CouponRepository) HasUsage(userID, couponID uint) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.CouponUsage{}).
		Where("user_id = ? AND coupon_id = ?", userID, couponID).
		Count(&cnt).Error
	return cnt > 0, err
}

// RecordUsage inserts the usage row; the unique (user, coupon) index turns a
// duplicate into an error the service maps to StateConflict.
func (r *CouponRepository) RecordUsage(tx *gorm.DB, userID, couponID uint) error {
	return tx.Create(&entity.CouponUsage{UserID: userID, CouponID: couponID}).Error
}

func (r *CouponRepository) Create(cp *entity.Coupon) error {
	return r.DB.Create(cp).Error
}

func (r *CouponRepository) Delete(couponID uint) error {
	return r.DB.Unscoped().Delete(&entity.Coupon{}, couponID).Error
}

// LiveOrderReferences counts cart lines still carrying the coupon; a coupon
// with live references cannot be deleted.
func (r *CouponRepository) LiveOrderReferences(couponID uint) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.CartLine{}).
		Where("applied_coupon_id = ?", couponID).
		Count(&cnt).Error
	return cnt, err
}
