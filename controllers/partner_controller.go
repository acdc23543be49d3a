package controllers

import (
	"errors"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/middlewares"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/resp"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PartnerController struct {
	Assignment *services.AssignmentService
	Delivery   *services.DeliveryService
	Repo       *repository.DeliveryRepository
}

func NewPartnerController(assignment *services.AssignmentService, delivery *services.DeliveryService, repo *repository.DeliveryRepository) *PartnerController {
	return &PartnerController{Assignment: assignment, Delivery: delivery, Repo: repo}
}

// POST /partner/assignments
func (pc *PartnerController) AssignToPerson(c *gin.Context) {
	var req services.AssignPersonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := pc.Assignment.AssignToPerson(middlewares.Principal(c), &req); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "order assigned; out for delivery"})
}

type updateDeliveryStatusReq struct {
	Status entity.DeliveryStatus `json:"status" binding:"required,oneof=idle picked_up delivered returned"`
}

// PATCH /partner/delivery-status
func (pc *PartnerController) UpdateDeliveryStatus(c *gin.Context) {
	var req updateDeliveryStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := pc.Delivery.UpdateStatus(middlewares.Principal(c), req.Status); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"status": req.Status})
}

// GET /partner/persons
func (pc *PartnerController) ListPersons(c *gin.Context) {
	p := middlewares.Principal(c)
	partner, err := pc.Repo.GetPartnerByUser(pc.Repo.DB, p.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resp.Error(c, apperr.ErrPartnerNotFound)
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	persons, err := pc.Repo.ListPersonsForPartner(partner.ID)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": persons})
}

type createPartnerReq struct {
	UserID        uint   `json:"userId" binding:"required"`
	Name          string `json:"name" binding:"required"`
	VehicleNumber string `json:"vehicleNumber"`
	MaxOrders     int    `json:"maxOrders" binding:"required,min=1"`
	RestaurantIDs []uint `json:"restaurantIds"`
}

// POST /admin/partners
func (pc *PartnerController) CreatePartner(c *gin.Context) {
	var req createPartnerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	partner := entity.DeliveryPartner{
		UserID:        req.UserID,
		Name:          req.Name,
		VehicleNumber: req.VehicleNumber,
		MaxOrders:     req.MaxOrders,
	}
	for _, id := range req.RestaurantIDs {
		partner.AssignedRestaurants = append(partner.AssignedRestaurants, entity.Restaurant{Model: gorm.Model{ID: id}})
	}
	if err := pc.Repo.CreatePartner(&partner); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, partner)
}

type createPersonReq struct {
	UserID    uint   `json:"userId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	PartnerID uint   `json:"partnerId" binding:"required"`
}

// POST /admin/persons
func (pc *PartnerController) CreatePerson(c *gin.Context) {
	var req createPersonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	person := entity.DeliveryPerson{
		UserID:      req.UserID,
		Name:        req.Name,
		PartnerID:   req.PartnerID,
		Status:      entity.DeliveryIdle,
		IsAvailable: true,
	}
	if err := pc.Repo.CreatePerson(&person); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, person)
}
