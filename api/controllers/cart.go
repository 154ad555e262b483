package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/shopcart-backend/api/middleware"
	"github.com/oakline/shopcart-backend/api/responses"
	"github.com/oakline/shopcart-backend/api/validators"
	cartsvc "github.com/oakline/shopcart-backend/internal/cart"
	pkgerrors "github.com/oakline/shopcart-backend/pkg/errors"
	"github.com/oakline/shopcart-backend/pkg/logger"
	"github.com/oakline/shopcart-backend/pkg/types"
)

// CartFetch returns the shopper's current cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}

		snapshot, err := svc.Get(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartAddItem adds a product to the cart or increments an existing line.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.AddItem(r.Context(), profileID, payload.toInput(), payload.Quantity.Int())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartSetQuantity overwrites one line's quantity. Zero or less removes the line.
func CartSetQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.SetQuantity(r.Context(), profileID, productID, payload.Quantity.Int())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartRemoveItem deletes a line from the cart. Unknown ids are a no-op.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.RemoveItem(r.Context(), profileID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartClear empties the cart and erases its persisted copy.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}

		if err := svc.Clear(r.Context(), profileID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(&cartsvc.Snapshot{}))
	}
}

func requireProfile(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return "", false
	}

	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile context missing"))
		return "", false
	}

	return profileID, true
}

func productIDFromPath(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productID")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return productID, nil
}

type addItemRequest struct {
	ProductID int64             `json:"id" validate:"required"`
	Name      string            `json:"name"`
	UnitPrice types.FlexDecimal `json:"unit_price"`
	Stock     types.FlexInt     `json:"stock"`
	Image     string            `json:"image"`
	Quantity  types.FlexInt     `json:"quantity"`
}

func (r addItemRequest) toInput() cartsvc.ItemInput {
	return cartsvc.ItemInput{
		ProductID: r.ProductID,
		Name:      r.Name,
		UnitPrice: r.UnitPrice.Decimal,
		Stock:     r.Stock.Int(),
		Image:     r.Image,
	}
}

type setQuantityRequest struct {
	Quantity types.FlexInt `json:"quantity"`
}

type cartResponse struct {
	Lines      []cartLineResponse `json:"lines"`
	TotalPrice string             `json:"total_price"`
	ItemCount  int                `json:"item_count"`
}

type cartLineResponse struct {
	ProductID int64  `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Stock     int    `json:"stock"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

func newCartResponse(snapshot *cartsvc.Snapshot) cartResponse {
	if snapshot == nil {
		snapshot = &cartsvc.Snapshot{}
	}

	lines := make([]cartLineResponse, len(snapshot.Lines))
	for i, line := range snapshot.Lines {
		lines[i] = cartLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice.String(),
			Stock:     line.Stock,
			Image:     line.Image,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal().String(),
		}
	}

	return cartResponse{
		Lines:      lines,
		TotalPrice: snapshot.TotalPrice.String(),
		ItemCount:  snapshot.ItemCount,
	}
}
