package controllers

import (
	"strconv"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/middlewares"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/resp"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/services"

	"github.com/gin-gonic/gin"
)

type OwnerOrderController struct {
	Orders     *services.OrderService
	Assignment *services.AssignmentService
}

func NewOwnerOrderController(orders *services.OrderService, assignment *services.AssignmentService) *OwnerOrderController {
	return &OwnerOrderController{Orders: orders, Assignment: assignment}
}

// GET /owner/restaurants/:id/orders?status=
func (oc *OwnerOrderController) ListForRestaurant(c *gin.Context) {
	restID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid restaurant id")
		return
	}
	var status *entity.OrderStatus
	if s := c.Query("status"); s != "" {
		st := entity.OrderStatus(s)
		status = &st
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, err := oc.Orders.ListForRestaurant(middlewares.Principal(c), uint(restID), status, limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"items": orders})
}

// PATCH /owner/orders/:id/confirm
func (oc *OwnerOrderController) Confirm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}
	if err := oc.Orders.OwnerConfirm(middlewares.Principal(c), uint(id)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "order confirmed"})
}

// POST /owner/orders/:id/assign-partner
func (oc *OwnerOrderController) AssignPartner(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}
	out, err := oc.Assignment.AssignDeliveryPartner(middlewares.Principal(c), uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
