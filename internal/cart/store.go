package cart

import (
	"context"
	"errors"
	"sort"

	"github.com/oakline/shopcart-backend/pkg/blob"
	"github.com/oakline/shopcart-backend/pkg/logger"
	"github.com/oakline/shopcart-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Store holds the cart collection for one profile key and mirrors every
// mutation into the blob store. There is exactly one writer per profile and
// the blob is overwritten wholesale, so concurrent writers are last-write-wins
// with no reconciliation.
type Store struct {
	key     string
	lines   map[int64]Line
	blobs   blob.Store
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// Open hydrates the cart for key from the blob store. A missing blob yields
// an empty cart. A malformed blob is discarded, its key erased, and an empty
// cart returned; hydration never fails. A backend read error also serves an
// empty cart for the session, but the key is left alone so the persisted cart
// survives until the next successful hydrate, and the degraded read is
// metered separately from corrupt-blob resets.
func Open(ctx context.Context, blobs blob.Store, key string, logg *logger.Logger, m *metrics.CartMetrics) *Store {
	s := &Store{
		key:     key,
		lines:   map[int64]Line{},
		blobs:   blobs,
		logg:    logg,
		metrics: m,
	}

	payload, err := blobs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, blob.ErrNotFound) {
			m.IncDegradedHydrate()
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "cart_key", key), "cart blob read failed, starting empty")
			}
		}
		return s
	}

	decoded, err := DecodeLines(payload)
	if err != nil {
		// Corrupt blob: erase and start fresh rather than surfacing the error.
		if delErr := blobs.Delete(ctx, key); delErr != nil && logg != nil {
			logg.Warn(logg.WithField(ctx, "cart_key", key), "failed to erase corrupt cart blob")
		}
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "cart_key", key), "corrupt cart blob discarded")
		}
		m.IncHydrateReset()
		return s
	}

	for _, line := range decoded {
		s.lines[line.ProductID] = line
	}
	return s
}

// AddItem inserts the product or increments the quantity of an existing line.
// Quantity defaults to 1 when non-positive. Existing lines increment
// unconditionally, keeping the stock snapshot already stored; a new line is
// only inserted when the snapshot has sellable stock, since a line with stock
// 0 must not exist. The incremented quantity is deliberately not clamped to
// stock; only SetQuantity clamps.
func (s *Store) AddItem(ctx context.Context, item ItemInput, quantity int) {
	s.metrics.IncMutation("add_item")

	item = item.normalize()
	if item.ProductID == 0 {
		return
	}
	if quantity <= 0 {
		quantity = 1
	}

	if existing, ok := s.lines[item.ProductID]; ok {
		existing.Quantity += quantity
		s.lines[item.ProductID] = existing
	} else {
		if item.Stock <= 0 {
			return
		}
		s.lines[item.ProductID] = Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Stock:     item.Stock,
			Image:     item.Image,
			Quantity:  quantity,
		}
	}

	s.persist(ctx)
}

// RemoveItem deletes the line if present; unknown ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID int64) {
	s.metrics.IncMutation("remove_item")

	if _, ok := s.lines[productID]; !ok {
		return
	}
	delete(s.lines, productID)
	s.persist(ctx)
}

// SetQuantity updates the quantity of an existing line, clamping to the stock
// snapshot. A non-positive quantity removes the line. Unknown ids are a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}

	s.metrics.IncMutation("set_quantity")

	line, ok := s.lines[productID]
	if !ok {
		return
	}
	if quantity > line.Stock {
		quantity = line.Stock
	}
	line.Quantity = quantity
	s.lines[productID] = line
	s.persist(ctx)
}

// Clear empties the collection and erases the persisted blob. Idempotent.
func (s *Store) Clear(ctx context.Context) {
	s.metrics.IncMutation("clear")

	s.lines = map[int64]Line{}
	if err := s.blobs.Delete(ctx, s.key); err != nil {
		s.metrics.IncPersistFailure()
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "cart_key", s.key), "failed to erase cart blob on clear")
		}
	}
}

// Lines returns the collection ordered by product id.
func (s *Store) Lines() []Line {
	out := make([]Line, 0, len(s.lines))
	for _, line := range s.lines {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// TotalPrice recomputes the cart total from the live collection on every call.
func (s *Store) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount recomputes the summed quantity across lines on every call.
func (s *Store) ItemCount() int {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	return len(s.lines)
}

// persist mirrors the full collection into the blob store. Write failures are
// logged and swallowed; the in-memory cart stays authoritative for the session.
func (s *Store) persist(ctx context.Context) {
	payload, err := EncodeLines(s.Lines())
	if err != nil {
		s.metrics.IncPersistFailure()
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "cart_key", s.key), "failed to encode cart", err)
		}
		return
	}
	if err := s.blobs.Put(ctx, s.key, payload); err != nil {
		s.metrics.IncPersistFailure()
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "cart_key", s.key), "cart persistence write failed")
		}
	}
}
