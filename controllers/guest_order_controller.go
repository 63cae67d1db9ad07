package controllers

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/pkg/resp"
	"github.com/Dhallagan/indieout-marketplace-sub001/services"

	"github.com/gin-gonic/gin"
)

type GuestOrderController struct {
	Checkout *services.CheckoutService
}

func NewGuestOrderController(checkout *services.CheckoutService) *GuestOrderController {
	return &GuestOrderController{Checkout: checkout}
}

// POST /guest/orders — checkout without an account. The item list comes in
// the request body; a user row is provisioned (or reused) for the email.
func (h *GuestOrderController) Create(c *gin.Context) {
	var req services.GuestCheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	orders, err := h.Checkout.GuestCheckout(&req)
	if err != nil {
		checkoutError(c, err)
		return
	}
	resp.Created(c, orders)
}
