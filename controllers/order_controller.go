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

type OrderController struct {
	Checkout *services.CheckoutService
	Orders   *services.OrderService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService) *OrderController {
	return &OrderController{Checkout: checkout, Orders: orders}
}

// checkoutError maps the split pipeline's error vocabulary to HTTP. Shared by
// the authenticated and guest checkout endpoints.
func checkoutError(c *gin.Context, err error) {
	var shortage *services.ShortageError
	if errors.As(err, &shortage) {
		resp.Unprocessable(c, "insufficient inventory", gin.H{"insufficient_items": shortage.Items})
		return
	}
	var partial *services.PartialCheckoutError
	if errors.As(err, &partial) {
		// some per-store orders committed before the failure; return them so
		// the client can reconcile instead of re-submitting everything
		c.JSON(500, gin.H{"ok": false, "error": partial.Error(), "orders": partial.Created})
		return
	}
	switch {
	case errors.Is(err, services.ErrCartEmpty):
		resp.Unprocessable(c, err.Error(), nil)
	case errors.Is(err, services.ErrAddressIncomplete):
		resp.Unprocessable(c, err.Error(), nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c)
	default:
		resp.ServerError(c, err)
	}
}

// POST /orders — checkout from the authenticated user's cart. Responds 201
// with one order per store.
func (h *OrderController) Create(c *gin.Context) {
	var req services.CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	orders, err := h.Checkout.CheckoutFromCart(utils.CurrentUserID(c), &req)
	if err != nil {
		checkoutError(c, err)
		return
	}
	resp.Created(c, orders)
}

// GET /orders
func (h *OrderController) ListForMe(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := h.Orders.ListForUser(utils.CurrentUserID(c), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /orders/:id
func (h *OrderController) Detail(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("id"))
	out, err := h.Orders.DetailForUser(utils.CurrentUserID(c), uint(orderID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// PATCH /orders/:id/cancel
func (h *OrderController) Cancel(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("id"))
	err := h.Orders.Cancel(utils.CurrentUserID(c), uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp.NotFound(c)
		case errors.Is(err, services.ErrInvalidTransition):
			resp.Conflict(c, "order can no longer be cancelled")
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, gin.H{"cancelled": true})
}

// GET /orders/by_number/:order_number?email= — unauthenticated guest lookup.
// Wrong email and unknown number both answer 404.
func (h *OrderController) ByNumber(c *gin.Context) {
	out, err := h.Orders.LookupByNumber(c.Param("order_number"), c.Query("email"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}
