package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edulearn-api/internal/dto"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
	"github.com/noah-isme/edulearn-api/pkg/razorpay"
)

const minorUnitsPerMajor = 100

type paymentGateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
}

// PaymentService bridges checkout to the payment gateway.
type PaymentService struct {
	gateway   paymentGateway
	secret    []byte
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService. secret is the gateway key secret used to sign callbacks.
func NewPaymentService(gateway paymentGateway, secret string, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{gateway: gateway, secret: []byte(secret), metrics: metrics, validator: validate, logger: logger}
}

// CreateOrder registers an order with the gateway. Amount is given in major units.
func (s *PaymentService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*razorpay.Order, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid order payload")
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = "rcpt_" + uuid.NewString()
	}

	start := time.Now()
	order, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   req.Amount.Int64() * minorUnitsPerMajor,
		Currency: strings.ToUpper(req.Currency),
		Receipt:  receipt,
	})
	s.metrics.ObserveGatewayCall("create_order", err, time.Since(start))
	if err != nil {
		s.logger.Error("failed to create order", zap.String("receipt", receipt), zap.Error(err))
		message := "Failed to create order"
		var apiErr *razorpay.APIError
		if errors.As(err, &apiErr) && apiErr.Description != "" {
			message = "Failed to create order: " + apiErr.Description
		} else if errors.Is(err, razorpay.ErrNotConfigured) {
			message = "Failed to create order: payment gateway is not configured"
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, message)
	}
	s.logger.Info("order created", zap.String("order_id", order.ID), zap.String("receipt", receipt))
	return order, nil
}

// Verify checks a checkout callback signature, an HMAC-SHA256 over "orderID|paymentID" in lowercase hex.
func (s *PaymentService) Verify(orderID, paymentID, signature string) bool {
	if len(s.secret) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, s.secret)
	if _, err := mac.Write([]byte(orderID + "|" + paymentID)); err != nil {
		return false
	}
	expected := hex.EncodeToString(mac.Sum(nil))
	valid := strings.EqualFold(expected, signature)
	s.logger.Info("payment verification", zap.String("order_id", orderID), zap.String("payment_id", paymentID), zap.Bool("valid", valid))
	return valid
}
