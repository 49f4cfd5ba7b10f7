package razorpay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const ordersPath = "/v1/orders"

// ErrNotConfigured is returned when the client has no API credentials.
var ErrNotConfigured = errors.New("razorpay credentials not configured")

// OrderRequest is the payload accepted by the Orders API. Amount is in minor units.
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// Order mirrors the gateway's order resource.
type Order struct {
	ID         string                 `json:"id"`
	Entity     string                 `json:"entity"`
	Amount     int64                  `json:"amount"`
	AmountPaid int64                  `json:"amount_paid"`
	AmountDue  int64                  `json:"amount_due"`
	Currency   string                 `json:"currency"`
	Receipt    string                 `json:"receipt"`
	Status     string                 `json:"status"`
	Attempts   int                    `json:"attempts"`
	Notes      map[string]interface{} `json:"notes,omitempty"`
	CreatedAt  int64                  `json:"created_at"`
}

// APIError describes an error payload returned by the gateway.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// Config configures the gateway client.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// Client talks to the Razorpay REST API.
type Client struct {
	http       *resty.Client
	configured bool
}

// NewClient builds a client authenticated with basic auth.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.razorpay.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, configured: cfg.KeyID != "" && cfg.KeySecret != ""}
}

// CreateOrder registers a new order with the gateway.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}

	var order Order
	var failure errorEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&order).
		SetError(&failure).
		Post(ordersPath)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		apiErr := failure.Error
		apiErr.StatusCode = resp.StatusCode()
		if apiErr.Description == "" {
			apiErr.Description = resp.String()
		}
		return nil, &apiErr
	}

	return &order, nil
}
