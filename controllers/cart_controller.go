package controllers

import (
	"strconv"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/middlewares"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/resp"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	Svc *services.CartService
}

func NewCartController(svc *services.CartService) *CartController {
	return &CartController{Svc: svc}
}

type addCartLineReq struct {
	MenuItemID uint `json:"menuItemId" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// POST /cart/items
func (cc *CartController) Add(c *gin.Context) {
	var req addCartLineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := cc.Svc.Add(middlewares.Principal(c), req.MenuItemID, req.Quantity); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"message": "cart updated"})
}

// GET /cart
func (cc *CartController) List(c *gin.Context) {
	groups, err := cc.Svc.List(middlewares.Principal(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"groups": groups})
}

type updateCartLineReq struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// PATCH /cart/items/:id
func (cc *CartController) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid cart line id")
		return
	}
	var req updateCartLineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	deleted, err := cc.Svc.Update(middlewares.Principal(c), uint(id), *req.Quantity)
	if err != nil {
		resp.Error(c, err)
		return
	}
	if deleted {
		resp.OK(c, gin.H{"message": "cart line deleted because quantity was 0"})
		return
	}
	resp.OK(c, gin.H{"message": "cart line updated"})
}

// DELETE /cart/items/:id
func (cc *CartController) Remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid cart line id")
		return
	}
	if err := cc.Svc.Remove(middlewares.Principal(c), uint(id)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "cart line removed"})
}

type applyCouponReq struct {
	Code string `json:"code" binding:"required"`
}

// POST /cart/coupon
func (cc *CartController) ApplyCoupon(c *gin.Context) {
	var req applyCouponReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := cc.Svc.ApplyCoupon(middlewares.Principal(c), req.Code)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// DELETE /cart/coupon
func (cc *CartController) RemoveCoupon(c *gin.Context) {
	if err := cc.Svc.RemoveCoupon(middlewares.Principal(c)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "coupon removed from cart"})
}
