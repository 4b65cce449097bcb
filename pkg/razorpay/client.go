package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Config contains credentials required to talk to Razorpay.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// Client is a minimal Razorpay orders client. Amounts are in minor units
// (paise) on the wire, matching the gateway contract.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
	logger    zerolog.Logger
}

// OrderRequest describes a new order to be created with the gateway.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's order descriptor, returned unchanged to callers.
type Order struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay: unexpected status %d: %s", e.StatusCode, e.Body)
}

// New constructs a Razorpay client instance.
func New(cfg Config) (*Client, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("razorpay credentials must be provided")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: timeout},
		logger:    cfg.Logger.With().Str("component", "razorpay").Logger(),
	}, nil
}

// CreateOrder registers a new order with the gateway.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if req.Amount <= 0 {
		return Order{}, fmt.Errorf("order amount must be positive")
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	c.logger.Info().
		Str("order_id", order.ID).
		Int64("amount", order.Amount).
		Str("currency", order.Currency).
		Msg("razorpay order created")

	return order, nil
}

// FetchOrder retrieves the canonical order record, including its amount.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (Order, error) {
	if orderID == "" {
		return Order{}, fmt.Errorf("order id must not be empty")
	}

	var order Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &order); err != nil {
		return Order{}, fmt.Errorf("fetch order %s: %w", orderID, err)
	}

	return order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
