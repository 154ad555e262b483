package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakline/shopcart-backend/internal/cart"
	pkgerrors "github.com/oakline/shopcart-backend/pkg/errors"
	"github.com/oakline/shopcart-backend/pkg/logger"
	"github.com/oakline/shopcart-backend/pkg/metrics"
	"github.com/oakline/shopcart-backend/pkg/orderapi"
)

type cartAccess interface {
	Get(ctx context.Context, profileID string) (*cart.Snapshot, error)
	Clear(ctx context.Context, profileID string) error
}

type orderCreator interface {
	CreateOrder(ctx context.Context, req orderapi.CreateOrderRequest) (*orderapi.OrderConfirmation, error)
}

// Input carries the externally-collected shipping and payment fields.
type Input struct {
	Shipping   orderapi.ShippingDetails
	PaymentRef string
}

// Service executes the one-shot checkout handoff: cart contents go to the
// Order API, and the cart is cleared only after the order is accepted.
type Service interface {
	Execute(ctx context.Context, profileID string, input Input) (*orderapi.OrderConfirmation, error)
}

type service struct {
	carts   cartAccess
	orders  orderCreator
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewService builds the checkout service.
func NewService(carts cartAccess, orders orderCreator, logg *logger.Logger, m *metrics.CartMetrics) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order api client required")
	}
	return &service{carts: carts, orders: orders, logg: logg, metrics: m}, nil
}

func (s *service) Execute(ctx context.Context, profileID string, input Input) (*orderapi.OrderConfirmation, error) {
	snapshot, err := s.carts.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	req := orderapi.CreateOrderRequest{
		ProfileID:  profileID,
		Items:      make([]orderapi.OrderItem, 0, len(snapshot.Lines)),
		Shipping:   input.Shipping,
		PaymentRef: input.PaymentRef,
	}
	for _, line := range snapshot.Lines {
		req.Items = append(req.Items, orderapi.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	confirmation, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		// The cart is left intact so the user can retry.
		s.metrics.IncCheckout("failure")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	s.metrics.IncCheckout("success")
	if err := s.carts.Clear(ctx, profileID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithProfileID(ctx, profileID), "failed to clear cart after checkout")
	}

	return confirmation, nil
}

func validateInput(input Input) error {
	missing := map[string]string{}
	if strings.TrimSpace(input.Shipping.Name) == "" {
		missing["shipping.name"] = "is required"
	}
	if strings.TrimSpace(input.Shipping.Line1) == "" {
		missing["shipping.line1"] = "is required"
	}
	if strings.TrimSpace(input.Shipping.City) == "" {
		missing["shipping.city"] = "is required"
	}
	if strings.TrimSpace(input.Shipping.PostalCode) == "" {
		missing["shipping.postal_code"] = "is required"
	}
	if strings.TrimSpace(input.Shipping.Country) == "" {
		missing["shipping.country"] = "is required"
	}
	if strings.TrimSpace(input.PaymentRef) == "" {
		missing["payment_ref"] = "is required"
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout fields missing").WithDetails(missing)
	}
	return nil
}
