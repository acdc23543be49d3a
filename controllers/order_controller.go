package controllers

import (
	"strconv"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/middlewares"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/resp"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Checkout *services.CheckoutService
	Orders   *services.OrderService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService) *OrderController {
	return &OrderController{Checkout: checkout, Orders: orders}
}

// POST /orders/checkout
func (oc *OrderController) CheckoutCart(c *gin.Context) {
	var req services.CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := oc.Checkout.Checkout(middlewares.Principal(c), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, err := oc.Orders.ListForUser(middlewares.Principal(c), limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"items": orders})
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}
	detail, err := oc.Orders.DetailForUser(middlewares.Principal(c), uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, detail)
}

// POST /orders/:id/cancel
func (oc *OrderController) Cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}
	cancelled, err := oc.Orders.Cancel(middlewares.Principal(c), uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{
		"message": "order cancelled and items added back to cart",
		"order":   cancelled,
	})
}

// DELETE /orders/finalized
func (oc *OrderController) CleanupFinalized(c *gin.Context) {
	deleted, err := oc.Orders.CleanupFinalized(middlewares.Principal(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": deleted})
}
