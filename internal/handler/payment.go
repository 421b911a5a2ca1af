package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
)

// PaymentHandler manages subscription checkouts and the gateway webhook
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Checkout starts an upgrade to a paid plan. Settlement arrives later via
// the webhook; poll the transaction or watch the event stream.
// POST /api/payments/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	tx, err := h.payments.Checkout(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), req.Plan)
	if err != nil {
		respondError(c, err, "Checkout failed")
		return
	}
	c.JSON(http.StatusAccepted, model.NewSuccessResponse("Checkout started", tx))
}

// Webhook receives the gateway's settlement callback. Unauthenticated:
// the gateway is not a tenant. Idempotent on replay.
// POST /api/payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var payload model.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid webhook payload", err.Error()))
		return
	}

	tx, err := h.payments.HandleWebhook(c.Request.Context(), &payload)
	if err != nil {
		respondError(c, err, "Webhook processing failed")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Webhook processed", tx))
}

// List returns the organization's transactions, newest first
// GET /api/payments
func (h *PaymentHandler) List(c *gin.Context) {
	txs, err := h.payments.ListByOrg(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", txs))
}

// Get returns one transaction
// GET /api/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tx, err := h.payments.Get(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Transaction not found")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", tx))
}
