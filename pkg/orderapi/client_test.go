package orderapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oakline/shopcart-backend/pkg/config"
)

func TestCreateOrderSuccess(t *testing.T) {
	var received CreateOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != createOrderPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sekret" {
			t.Errorf("missing api key header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(OrderConfirmation{OrderID: "ord-42", Status: "created"})
	}))
	defer server.Close()

	client, err := New(config.OrderAPIConfig{BaseURL: server.URL, APIKey: "sekret", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	confirmation, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		ProfileID:  "p-1",
		Items:      []OrderItem{{ProductID: 7, Quantity: 2}},
		Shipping:   ShippingDetails{Name: "A", Line1: "1 St", City: "Tulsa", State: "OK", PostalCode: "74101", Country: "US"},
		PaymentRef: "pm_123",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if confirmation.OrderID != "ord-42" {
		t.Fatalf("unexpected order id %q", confirmation.OrderID)
	}
	if len(received.Items) != 1 || received.Items[0].ProductID != 7 || received.Items[0].Quantity != 2 {
		t.Fatalf("order items not forwarded: %+v", received.Items)
	}
}

func TestCreateOrderSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"code":"OUT_OF_STOCK","message":"product 7 is out of stock"}}`))
	}))
	defer server.Close()

	client, err := New(config.OrderAPIConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.CreateOrder(context.Background(), CreateOrderRequest{ProfileID: "p-1"})
	if err == nil {
		t.Fatal("expected error from 422 response")
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(config.OrderAPIConfig{}); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
