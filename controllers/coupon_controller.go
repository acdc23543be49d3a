package controllers

import (
	"strconv"
	"time"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/resp"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CouponController struct {
	Coupons *services.CouponService
}

func NewCouponController(coupons *services.CouponService) *CouponController {
	return &CouponController{Coupons: coupons}
}

// POST /admin/coupons
func (cc *CouponController) Create(c *gin.Context) {
	var req services.CreateCouponReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	pct, err := decimal.NewFromString(req.DiscountPercent)
	if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		resp.BadRequest(c, "discountPercent must be between 0 and 100")
		return
	}

	cp := entity.Coupon{
		Code:            req.Code,
		DiscountPercent: pct,
		RestaurantID:    req.RestaurantID,
		MenuItemID:      req.MenuItemID,
	}
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			resp.BadRequest(c, "startTime must be RFC3339")
			return
		}
		cp.StartTime = t
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			resp.BadRequest(c, "endTime must be RFC3339")
			return
		}
		cp.EndTime = t
	}

	if err := cc.Coupons.Create(&cp); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, cp)
}

// DELETE /admin/coupons/:id
func (cc *CouponController) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "invalid coupon id")
		return
	}
	if err := cc.Coupons.Delete(uint(id)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "coupon deleted"})
}
