package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/oakline/shopcart-backend/internal/cart"
	pkgerrors "github.com/oakline/shopcart-backend/pkg/errors"
	"github.com/oakline/shopcart-backend/pkg/orderapi"
	"github.com/shopspring/decimal"
)

func validInput() Input {
	return Input{
		Shipping: orderapi.ShippingDetails{
			Name:       "A Customer",
			Line1:      "1 Main St",
			City:       "Tulsa",
			State:      "OK",
			PostalCode: "74101",
			Country:    "US",
		},
		PaymentRef: "pm_123",
	}
}

func twoLineSnapshot() *cart.Snapshot {
	return &cart.Snapshot{
		Lines: []cart.Line{
			{ProductID: 1, Name: "X", UnitPrice: decimal.NewFromInt(10), Stock: 5, Quantity: 2},
			{ProductID: 7, Name: "W", UnitPrice: decimal.NewFromInt(15), Stock: 3, Quantity: 1},
		},
		TotalPrice: decimal.NewFromInt(35),
		ItemCount:  3,
	}
}

func TestExecuteSuccessClearsCart(t *testing.T) {
	t.Parallel()

	carts := &stubCartAccess{snapshot: twoLineSnapshot()}
	orders := &stubOrderCreator{confirmation: &orderapi.OrderConfirmation{OrderID: "ord-1", Status: "created"}}
	svc := mustService(t, carts, orders)

	confirmation, err := svc.Execute(context.Background(), "profile-1", validInput())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if confirmation.OrderID != "ord-1" {
		t.Fatalf("unexpected confirmation %+v", confirmation)
	}
	if !carts.cleared {
		t.Fatal("expected cart to be cleared after successful order")
	}
	if len(orders.lastRequest.Items) != 2 {
		t.Fatalf("expected 2 order items, got %+v", orders.lastRequest.Items)
	}
	if orders.lastRequest.Items[0].ProductID != 1 || orders.lastRequest.Items[0].Quantity != 2 {
		t.Fatalf("line not projected into order payload: %+v", orders.lastRequest.Items[0])
	}
}

func TestExecuteFailureLeavesCartIntact(t *testing.T) {
	t.Parallel()

	carts := &stubCartAccess{snapshot: twoLineSnapshot()}
	orders := &stubOrderCreator{err: errors.New("connection refused")}
	svc := mustService(t, carts, orders)

	_, err := svc.Execute(context.Background(), "profile-1", validInput())
	if err == nil {
		t.Fatal("expected error from failed order call")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if carts.cleared {
		t.Fatal("cart must not be cleared when the order call fails")
	}
}

func TestExecuteEmptyCartRejected(t *testing.T) {
	t.Parallel()

	carts := &stubCartAccess{snapshot: &cart.Snapshot{}}
	orders := &stubOrderCreator{}
	svc := mustService(t, carts, orders)

	_, err := svc.Execute(context.Background(), "profile-1", validInput())
	if err == nil {
		t.Fatal("expected validation error for empty cart")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
	if orders.calls != 0 {
		t.Fatal("order api must not be called for an empty cart")
	}
}

func TestExecuteValidatesShippingFields(t *testing.T) {
	t.Parallel()

	carts := &stubCartAccess{snapshot: twoLineSnapshot()}
	orders := &stubOrderCreator{}
	svc := mustService(t, carts, orders)

	input := validInput()
	input.Shipping.PostalCode = ""
	input.PaymentRef = " "

	_, err := svc.Execute(context.Background(), "profile-1", input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if _, ok := details["shipping.postal_code"]; !ok {
		t.Fatalf("missing postal code detail: %v", details)
	}
	if _, ok := details["payment_ref"]; !ok {
		t.Fatalf("missing payment ref detail: %v", details)
	}
}

func mustService(t *testing.T, carts cartAccess, orders orderCreator) Service {
	t.Helper()
	svc, err := NewService(carts, orders, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubCartAccess struct {
	snapshot *cart.Snapshot
	cleared  bool
}

func (s *stubCartAccess) Get(ctx context.Context, profileID string) (*cart.Snapshot, error) {
	return s.snapshot, nil
}

func (s *stubCartAccess) Clear(ctx context.Context, profileID string) error {
	s.cleared = true
	return nil
}

type stubOrderCreator struct {
	confirmation *orderapi.OrderConfirmation
	err          error
	calls        int
	lastRequest  orderapi.CreateOrderRequest
}

func (s *stubOrderCreator) CreateOrder(ctx context.Context, req orderapi.CreateOrderRequest) (*orderapi.OrderConfirmation, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return s.confirmation, nil
}
