package controllers

import (
	"net/http"

	"github.com/oakline/shopcart-backend/api/middleware"
	"github.com/oakline/shopcart-backend/api/responses"
	"github.com/oakline/shopcart-backend/api/validators"
	checkoutsvc "github.com/oakline/shopcart-backend/internal/checkout"
	pkgerrors "github.com/oakline/shopcart-backend/pkg/errors"
	"github.com/oakline/shopcart-backend/pkg/logger"
	"github.com/oakline/shopcart-backend/pkg/orderapi"
)

// Checkout submits the shopper's cart to the order service. The cart is
// cleared only after the order service accepts it.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		profileID := middleware.ProfileIDFromContext(r.Context())
		if profileID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile context missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.Execute(r.Context(), profileID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutResponse(confirmation))
	}
}

type checkoutRequest struct {
	Shipping   shippingPayload `json:"shipping" validate:"required"`
	PaymentRef string          `json:"payment_ref"`
}

type shippingPayload struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

func (r checkoutRequest) toInput() checkoutsvc.Input {
	return checkoutsvc.Input{
		Shipping: orderapi.ShippingDetails{
			Name:       r.Shipping.Name,
			Line1:      r.Shipping.Line1,
			Line2:      r.Shipping.Line2,
			City:       r.Shipping.City,
			State:      r.Shipping.State,
			PostalCode: r.Shipping.PostalCode,
			Country:    r.Shipping.Country,
			Phone:      r.Shipping.Phone,
		},
		PaymentRef: r.PaymentRef,
	}
}

type checkoutResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Total   string `json:"total,omitempty"`
}

func newCheckoutResponse(confirmation *orderapi.OrderConfirmation) checkoutResponse {
	if confirmation == nil {
		return checkoutResponse{}
	}
	return checkoutResponse{
		OrderID: confirmation.OrderID,
		Status:  confirmation.Status,
		Total:   confirmation.Total,
	}
}
