package controllers

import (
	"errors"
	"strconv"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"github.com/Dhallagan/indieout-marketplace-sub001/pkg/resp"
	"github.com/Dhallagan/indieout-marketplace-sub001/services"
	"github.com/Dhallagan/indieout-marketplace-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SellerOrderController struct {
	Svc *services.OrderService
}

func NewSellerOrderController(svc *services.OrderService) *SellerOrderController {
	return &SellerOrderController{Svc: svc}
}

func sellerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, "not your store")
	case errors.Is(err, services.ErrInvalidTransition):
		resp.Conflict(c, "invalid status transition")
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c)
	default:
		resp.ServerError(c, err)
	}
}

// GET /seller/stores/:id/orders?status=&page=&limit=
func (h *SellerOrderController) List(c *gin.Context) {
	storeID, _ := strconv.Atoi(c.Param("id"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var status entity.OrderStatus
	if s := c.Query("status"); s != "" {
		status = entity.OrderStatus(s)
		if !status.Valid() {
			resp.BadRequest(c, "unknown status")
			return
		}
	}

	out, err := h.Svc.ListForStore(utils.CurrentUserID(c), uint(storeID), status, page, limit)
	if err != nil {
		sellerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /seller/stores/:id/orders/:oid
func (h *SellerOrderController) Detail(c *gin.Context) {
	storeID, _ := strconv.Atoi(c.Param("id"))
	orderID, _ := strconv.Atoi(c.Param("oid"))

	out, err := h.Svc.DetailForStore(utils.CurrentUserID(c), uint(storeID), uint(orderID))
	if err != nil {
		sellerError(c, err)
		return
	}
	resp.OK(c, out)
}

// PATCH /seller/orders/:id/fulfill — confirmed+paid → processing, and the
// inventory decrement happens here.
func (h *SellerOrderController) Fulfill(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("id"))

	if err := h.Svc.Fulfill(utils.CurrentUserID(c), uint(orderID)); err != nil {
		sellerError(c, err)
		return
	}
	resp.OK(c, gin.H{"fulfilled": true})
}

type updateStatusReq struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
}

// PATCH /seller/orders/:id/update_status
func (h *SellerOrderController) UpdateStatus(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("id"))

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	to := entity.OrderStatus(req.Status)
	if !to.Valid() {
		resp.BadRequest(c, "unknown status")
		return
	}

	if err := h.Svc.UpdateStatus(utils.CurrentUserID(c), uint(orderID), to, req.TrackingNumber); err != nil {
		sellerError(c, err)
		return
	}
	resp.OK(c, gin.H{"status": to})
}
