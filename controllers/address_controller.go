package controllers

import (
	"errors"
	"strconv"

	"github.com/Dhallagan/indieout-marketplace-sub001/pkg/resp"
	"github.com/Dhallagan/indieout-marketplace-sub001/services"
	"github.com/Dhallagan/indieout-marketplace-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddressController struct {
	Svc *services.AddressService
}

func NewAddressController(svc *services.AddressService) *AddressController {
	return &AddressController{Svc: svc}
}

// GET /addresses
func (h *AddressController) List(c *gin.Context) {
	out, err := h.Svc.ListForUser(utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// POST /addresses
func (h *AddressController) Create(c *gin.Context) {
	var req services.AddressBookIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	a, err := h.Svc.Create(utils.CurrentUserID(c), &req)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, a)
}

// DELETE /addresses/:id
func (h *AddressController) Delete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := h.Svc.Delete(utils.CurrentUserID(c), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
