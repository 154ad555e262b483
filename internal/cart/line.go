package cart

import (
	"github.com/shopspring/decimal"
)

// Line is one distinct product held in the cart. Name, price and stock are
// snapshots taken at add time and never re-synced with the catalog.
type Line struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// valid reports whether the line can exist in a collection: known product,
// positive quantity, sellable stock. Quantity above stock is tolerated here
// because AddItem increments without clamping; only SetQuantity clamps.
func (l Line) valid() bool {
	return l.ProductID != 0 && l.Quantity >= 1 && l.Stock >= 1
}

// ItemInput is the catalog snapshot supplied when adding a product.
type ItemInput struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
	Image     string
}

// normalize applies the permissive-input policy: a negative price collapses
// to zero rather than failing the add.
func (i ItemInput) normalize() ItemInput {
	if i.UnitPrice.IsNegative() {
		i.UnitPrice = decimal.Zero
	}
	return i
}

// Key returns the blob key holding the cart for one browser profile.
func Key(profileID string) string {
	return "cart:" + profileID
}
