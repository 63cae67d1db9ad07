package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Dhallagan/indieout-marketplace-sub001/pkg/resp"
	"github.com/Dhallagan/indieout-marketplace-sub001/services"
	"github.com/Dhallagan/indieout-marketplace-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// webhookMaxBody caps the raw payload we read for signature verification.
const webhookMaxBody = 65536

type PaymentController struct {
	Svc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{Svc: svc}
}

type paymentReq struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// POST /payments/create_intent
func (h *PaymentController) CreateIntent(c *gin.Context) {
	var req paymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := h.Svc.CreateIntent(utils.CurrentUserID(c), req.OrderID)
	if err != nil {
		h.paymentError(c, err)
		return
	}
	resp.OK(c, out)
}

// POST /payments/confirm — client-driven poll after the frontend completes
// the payment flow. Idempotent against the webhook.
func (h *PaymentController) Confirm(c *gin.Context) {
	var req paymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := h.Svc.Confirm(utils.CurrentUserID(c), req.OrderID)
	if err != nil {
		h.paymentError(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *PaymentController) paymentError(c *gin.Context, err error) {
	var payErr *services.PaymentError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c)
	case errors.Is(err, services.ErrOrderNotPending):
		resp.Unprocessable(c, err.Error(), nil)
	case errors.As(err, &payErr):
		resp.Unprocessable(c, payErr.Error(), nil)
	default:
		resp.ServerError(c, err)
	}
}

// POST /payments/webhook — processor callbacks. The body must be read raw:
// signature verification covers the exact bytes sent. Events we understand
// but cannot match to an order are still acknowledged with 200 so the
// processor stops retrying.
func (h *PaymentController) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, webhookMaxBody))
	if err != nil {
		resp.BadRequest(c, "cannot read payload")
		return
	}

	event, err := h.Svc.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		resp.BadRequest(c, "signature verification failed")
		return
	}

	if err := h.Svc.HandleEvent(event); err != nil {
		if errors.Is(err, services.ErrMalformedEvent) {
			resp.BadRequest(c, err.Error())
			return
		}
		log.Printf("webhook %s: %v", event.Type, err)
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"received": true})
}
