package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulearn-api/internal/dto"
	"github.com/noah-isme/edulearn-api/pkg/razorpay"
	"github.com/noah-isme/edulearn-api/pkg/response"
)

type paymentService interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*razorpay.Order, error)
	Verify(orderID, paymentID, signature string) bool
}

// PaymentHandler exposes checkout endpoints backed by the payment gateway.
type PaymentHandler struct {
	payments paymentService
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateOrder godoc
// @Summary Create payment order
// @Description Amount is in major currency units; the gateway receives minor units
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.CreateOrderRequest true "Order payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /create-order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	order, err := h.payments.CreateOrder(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

// VerifyPayment godoc
// @Summary Verify payment signature
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.VerifyPaymentRequest true "Gateway callback fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /verify-payment [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	if !h.payments.Verify(req.OrderID, req.PaymentID, req.Signature) {
		response.Message(c, http.StatusBadRequest, "Payment Verification Failed")
		return
	}
	response.Message(c, http.StatusOK, "Payment Verified")
}
