package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	checkoutsvc "github.com/oakline/shopcart-backend/internal/checkout"
	pkgerrors "github.com/oakline/shopcart-backend/pkg/errors"
	"github.com/oakline/shopcart-backend/pkg/orderapi"
)

type stubCheckoutService struct {
	confirmation *orderapi.OrderConfirmation
	err          error
	input        checkoutsvc.Input
	profileID    string
	called       bool
}

func (s *stubCheckoutService) Execute(ctx context.Context, profileID string, input checkoutsvc.Input) (*orderapi.OrderConfirmation, error) {
	s.called = true
	s.profileID = profileID
	s.input = input
	return s.confirmation, s.err
}

func TestCheckoutSuccess(t *testing.T) {
	svc := &stubCheckoutService{confirmation: &orderapi.OrderConfirmation{OrderID: "ord_123", Status: "confirmed", Total: "45"}}
	handler := Checkout(svc, nil)

	body := `{"shipping":{"name":"Ada","line1":"1 Loop Rd","city":"Austin","state":"TX","postal_code":"78701","country":"US"},"payment_ref":"pay_9"}`
	req := withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.profileID != "profile-1" {
		t.Fatalf("unexpected profile id: %q", svc.profileID)
	}
	if svc.input.Shipping.City != "Austin" || svc.input.PaymentRef != "pay_9" {
		t.Fatalf("unexpected input: %+v", svc.input)
	}

	var envelope struct {
		Data checkoutResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != "ord_123" || envelope.Data.Status != "confirmed" {
		t.Fatalf("unexpected confirmation: %+v", envelope.Data)
	}
}

func TestCheckoutMissingProfileContext(t *testing.T) {
	svc := &stubCheckoutService{}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"shipping":{}}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if svc.called {
		t.Fatalf("service should not run without a profile")
	}
}

func TestCheckoutServiceFailure(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeDependency, "order service rejected the cart")}
	handler := Checkout(svc, nil)

	body := `{"shipping":{"name":"Ada","line1":"1 Loop Rd","city":"Austin","state":"TX","postal_code":"78701","country":"US"}}`
	req := withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
