package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakline/shopcart-backend/pkg/blob"
	pkgerrors "github.com/oakline/shopcart-backend/pkg/errors"
	"github.com/oakline/shopcart-backend/pkg/logger"
	"github.com/oakline/shopcart-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Snapshot is the cart state handed to views: the lines plus the derived
// totals, recomputed fresh for every read.
type Snapshot struct {
	Lines      []Line
	TotalPrice decimal.Decimal
	ItemCount  int
}

// Service exposes the per-profile cart mutation surface. Each call hydrates
// the profile's cart from the blob store, applies the mutation, and returns
// the resulting snapshot. Mutations never fail on persistence errors.
type Service interface {
	Get(ctx context.Context, profileID string) (*Snapshot, error)
	AddItem(ctx context.Context, profileID string, item ItemInput, quantity int) (*Snapshot, error)
	RemoveItem(ctx context.Context, profileID string, productID int64) (*Snapshot, error)
	SetQuantity(ctx context.Context, profileID string, productID int64, quantity int) (*Snapshot, error)
	Clear(ctx context.Context, profileID string) error
}

type service struct {
	blobs   blob.Store
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewService builds a cart service over the configured blob backend.
func NewService(blobs blob.Store, logg *logger.Logger, m *metrics.CartMetrics) (Service, error) {
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{blobs: blobs, logg: logg, metrics: m}, nil
}

func (s *service) Get(ctx context.Context, profileID string) (*Snapshot, error) {
	store, err := s.open(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return snapshot(store), nil
}

func (s *service) AddItem(ctx context.Context, profileID string, item ItemInput, quantity int) (*Snapshot, error) {
	store, err := s.open(ctx, profileID)
	if err != nil {
		return nil, err
	}
	store.AddItem(ctx, item, quantity)
	return snapshot(store), nil
}

func (s *service) RemoveItem(ctx context.Context, profileID string, productID int64) (*Snapshot, error) {
	store, err := s.open(ctx, profileID)
	if err != nil {
		return nil, err
	}
	store.RemoveItem(ctx, productID)
	return snapshot(store), nil
}

func (s *service) SetQuantity(ctx context.Context, profileID string, productID int64, quantity int) (*Snapshot, error) {
	store, err := s.open(ctx, profileID)
	if err != nil {
		return nil, err
	}
	store.SetQuantity(ctx, productID, quantity)
	return snapshot(store), nil
}

func (s *service) Clear(ctx context.Context, profileID string) error {
	store, err := s.open(ctx, profileID)
	if err != nil {
		return err
	}
	store.Clear(ctx)
	return nil
}

func (s *service) open(ctx context.Context, profileID string) (*Store, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return Open(ctx, s.blobs, Key(profileID), s.logg, s.metrics), nil
}

func snapshot(store *Store) *Snapshot {
	return &Snapshot{
		Lines:      store.Lines(),
		TotalPrice: store.TotalPrice(),
		ItemCount:  store.ItemCount(),
	}
}
