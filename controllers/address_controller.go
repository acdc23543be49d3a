package controllers

import (
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/middlewares"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/resp"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"

	"github.com/gin-gonic/gin"
)

type AddressController struct {
	Repo *repository.CatalogRepository
}

func NewAddressController(repo *repository.CatalogRepository) *AddressController {
	return &AddressController{Repo: repo}
}

type createAddressReq struct {
	Label string `json:"label"`
	Text  string `json:"text" binding:"required"`
}

// POST /addresses
func (ac *AddressController) Create(c *gin.Context) {
	var req createAddressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	addr := entity.SavedAddress{
		UserID: middlewares.Principal(c).UserID,
		Label:  req.Label,
		Text:   req.Text,
	}
	if err := ac.Repo.CreateAddress(&addr); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, addr)
}

// GET /addresses
func (ac *AddressController) List(c *gin.Context) {
	items, err := ac.Repo.ListAddressesForUser(middlewares.Principal(c).UserID)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}
