package controllers

import (
	"strconv"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/middlewares"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/resp"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/services"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

// Webhook receives gateway callbacks. The route is unauthenticated; the
// HMAC signature header is the only trust anchor, so the raw body must be
// verified before any parsing.
// POST /payments/webhook
func (pc *PaymentController) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		resp.BadRequest(c, "unreadable body")
		return
	}
	signature := c.GetHeader("X-Gateway-Signature")
	if err := pc.Payments.ProcessWebhook(payload, signature); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "processed"})
}

// GET /payments/orders/:id/context
func (pc *PaymentController) Context(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}
	ctx, err := pc.Payments.Context(middlewares.Principal(c), uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, ctx)
}

// POST /payments/orders/:id/reconcile
func (pc *PaymentController) Reconcile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}
	order, err := pc.Payments.Reconcile(middlewares.Principal(c), uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{
		"orderId":       order.ID,
		"paymentStatus": order.Payment.Status,
	})
}
