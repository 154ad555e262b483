// Package blob provides the key-value persistence contract the cart store
// mirrors itself into. Payloads are opaque byte slices written wholesale;
// there is no incremental patching.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or was
// deleted.
var ErrNotFound = errors.New("blob: key not found")

// Store is a synchronous string-keyed blob store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
