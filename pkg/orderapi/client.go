// Package orderapi is the HTTP client for the external Order API. Checkout is
// a single fire-and-await call: no retry, no partial state on failure.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oakline/shopcart-backend/pkg/config"
)

const createOrderPath = "/api/v1/orders"

// OrderItem is one cart line projected into the order payload.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// ShippingDetails carries the externally-collected shipping fields.
type ShippingDetails struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// CreateOrderRequest is the one-shot checkout handoff payload.
type CreateOrderRequest struct {
	ProfileID  string          `json:"profile_id"`
	Items      []OrderItem     `json:"items"`
	Shipping   ShippingDetails `json:"shipping"`
	PaymentRef string          `json:"payment_ref"`
}

// OrderConfirmation is the durable order record reference returned on success.
type OrderConfirmation struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Total   string `json:"total,omitempty"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the Order API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New builds an Order API client from config.
func New(cfg config.OrderAPIConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("order api base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid order api base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// CreateOrder submits the order once and returns the confirmation.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderConfirmation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode order payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createOrderPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("order api request: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var confirmation OrderConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return nil, fmt.Errorf("decode order confirmation: %w", err)
	}
	return &confirmation, nil
}

func decodeError(resp *http.Response) error {
	var envelope apiErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("order api rejected request (%d %s): %s", resp.StatusCode, envelope.Error.Code, envelope.Error.Message)
	}
	return fmt.Errorf("order api returned status %d", resp.StatusCode)
}
