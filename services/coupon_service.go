package services

import (
	"errors"
	"time"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"

	"gorm.io/gorm"
)

// CouponService is the coupon ledger: it validates a code against usage
// history and records consumption.
type CouponService struct {
	DB   *gorm.DB
	Repo *repository.CouponRepository
}

func NewCouponService(db *gorm.DB, repo *repository.CouponRepository) *CouponService {
	return &CouponService{DB: db, Repo: repo}
}

// Validate checks the code is known, active, inside its validity window and
// unused by this user.
func (s *CouponService) Validate(code string, userID uint) (*entity.Coupon, error) {
	cp, err := s.Repo.GetByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}

	if !cp.IsActive {
		return nil, apperr.ErrCouponInactive
	}
	now := time.Now()
	if now.Before(cp.StartTime) || now.After(cp.EndTime) {
		return nil, apperr.ErrCouponExpired
	}

	used, err := s.Repo.HasUsage(userID, cp.ID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, apperr.ErrCouponUsed
	}
	return cp, nil
}

// RecordUsage consumes the coupon for the user inside the caller's
// transaction. The unique index is the final arbiter under races.
func (s *CouponService) RecordUsage(tx *gorm.DB, userID, couponID uint) error {
	if err := s.Repo.RecordUsage(tx, userID, couponID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrCouponUsed
		}
		return err
	}
	return nil
}

type CreateCouponReq struct {
	Code            string  `json:"code" binding:"required"`
	DiscountPercent string  `json:"discountPercent" binding:"required"`
	StartTime       *string `json:"startTime"`
	EndTime         *string `json:"endTime"`
	RestaurantID    *uint   `json:"restaurantId"`
	MenuItemID      *uint   `json:"menuItemId"`
}

// Create registers a coupon (admin gate happens in the controller layer).
func (s *CouponService) Create(cp *entity.Coupon) error {
	if cp.StartTime.IsZero() {
		cp.StartTime = time.Now()
	}
	if cp.EndTime.IsZero() {
		cp.EndTime = cp.StartTime.Add(24 * time.Hour)
	}
	cp.IsActive = true
	return s.Repo.Create(cp)
}

// Delete removes a coupon unless cart lines still reference it.
func (s *CouponService) Delete(couponID uint) error {
	refs, err := s.Repo.LiveOrderReferences(couponID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return apperr.WithMessage(apperr.ErrCouponUsed, "coupon is applied to %d active carts and cannot be deleted", refs)
	}
	return s.Repo.Delete(couponID)
}
