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

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

// identity builds the cart owner from the JWT (if any) or the guest bearer
// token header. Routes using this controller allow anonymous access.
func cartIdentity(c *gin.Context) services.CartIdentity {
	return services.CartIdentity{
		UserID:     utils.CurrentUserID(c),
		GuestToken: c.GetHeader("X-Guest-Token"),
	}
}

// GET /cart
func (h *CartController) Get(c *gin.Context) {
	view, err := h.Svc.Get(cartIdentity(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, view)
}

type addItemReq struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// POST /cart/items
func (h *CartController) Add(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	view, err := h.Svc.Add(cartIdentity(c), req.ProductID, req.Quantity)
	if err != nil {
		var stockErr *services.StockError
		if errors.As(err, &stockErr) {
			resp.Unprocessable(c, "insufficient inventory", gin.H{"available": stockErr.Available})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, view)
}

type updateQtyReq struct {
	Quantity int `json:"quantity"`
}

// PATCH /cart/items/:id
func (h *CartController) UpdateQty(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("id"))

	var req updateQtyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.UpdateQty(cartIdentity(c), uint(itemID), req.Quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

// DELETE /cart/items/:id
func (h *CartController) RemoveItem(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("id"))
	if err := h.Svc.RemoveItem(cartIdentity(c), uint(itemID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

// DELETE /cart
func (h *CartController) Clear(c *gin.Context) {
	if err := h.Svc.Clear(cartIdentity(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"ok": true})
}
