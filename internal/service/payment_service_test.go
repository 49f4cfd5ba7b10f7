package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edulearn-api/internal/dto"
	"github.com/noah-isme/edulearn-api/pkg/razorpay"
)

type stubGateway struct {
	last razorpay.OrderRequest
	err  error
}

func (g *stubGateway) CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	return &razorpay.Order{ID: "order_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrderConvertsToMinorUnits(t *testing.T) {
	gateway := &stubGateway{}
	metrics := NewMetricsService()
	svc := NewPaymentService(gateway, "secret", metrics, nil, zap.NewNop())

	order, err := svc.CreateOrder(context.Background(), dto.CreateOrderRequest{Amount: 499, Currency: "inr"})
	require.NoError(t, err)
	assert.Equal(t, int64(49900), gateway.last.Amount)
	assert.Equal(t, "INR", gateway.last.Currency)
	assert.True(t, strings.HasPrefix(gateway.last.Receipt, "rcpt_"))
	assert.Equal(t, "order_1", order.ID)
	assert.Equal(t, uint64(1), metrics.Snapshot().GatewayCalls)

	_, err = svc.CreateOrder(context.Background(), dto.CreateOrderRequest{Amount: 10, Currency: "INR", Receipt: "r-42"})
	require.NoError(t, err)
	assert.Equal(t, "r-42", gateway.last.Receipt)
	var req dto.CreateOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"499","currency":"INR"}`), &req))
	_, err = svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(49900), gateway.last.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"-5","currency":"INR"}`), &req))
	_, err = svc.CreateOrder(context.Background(), req)
	assertAppError(t, err, http.StatusBadRequest, "invalid order payload")

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"4.99","currency":"INR"}`), &req))
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	gateway := &stubGateway{err: &razorpay.APIError{StatusCode: http.StatusBadRequest, Code: "BAD_REQUEST_ERROR", Description: "amount too small"}}
	metrics := NewMetricsService()
	svc := NewPaymentService(gateway, "secret", metrics, nil, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), dto.CreateOrderRequest{Amount: 1, Currency: "INR"})
	assertAppError(t, err, http.StatusBadGateway, "Failed to create order: amount too small")
	assert.Equal(t, uint64(1), metrics.Snapshot().GatewayFailures)

	gateway.err = errors.New("dial tcp: timeout")
	_, err = svc.CreateOrder(context.Background(), dto.CreateOrderRequest{Amount: 1, Currency: "INR"})
	assertAppError(t, err, http.StatusBadGateway, "Failed to create order")

	_, err = svc.CreateOrder(context.Background(), dto.CreateOrderRequest{Amount: 0, Currency: "INR"})
	assertAppError(t, err, http.StatusBadRequest, "")
}

func TestVerifySignature(t *testing.T) {
	svc := NewPaymentService(&stubGateway{}, "secret", nil, nil, zap.NewNop())
	signature := sign("secret", "order_1", "pay_1")

	assert.True(t, svc.Verify("order_1", "pay_1", signature))
	assert.True(t, svc.Verify("order_1", "pay_1", strings.ToUpper(signature)))
	assert.False(t, svc.Verify("order_1", "pay_2", signature))
	assert.False(t, svc.Verify("order_1", "pay_1", ""))
	assert.False(t, svc.Verify("order_1", "pay_1", sign("other", "order_1", "pay_1")))

	unsigned := NewPaymentService(&stubGateway{}, "", nil, nil, zap.NewNop())
	assert.False(t, unsigned.Verify("order_1", "pay_1", signature))
}
