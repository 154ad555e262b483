package blob

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()

	if _, err := store.Get(ctx, "cart:p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unseen key, got %v", err)
	}

	if err := store.Put(ctx, "cart:p1", []byte(`[]`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	payload, err := store.Get(ctx, "cart:p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(payload) != `[]` {
		t.Fatalf("unexpected payload %q", payload)
	}

	// Mutating the returned slice must not leak into the store.
	payload[0] = 'x'
	fresh, err := store.Get(ctx, "cart:p1")
	if err != nil {
		t.Fatalf("get after mutation failed: %v", err)
	}
	if string(fresh) != `[]` {
		t.Fatalf("stored payload was aliased: %q", fresh)
	}

	if err := store.Delete(ctx, "cart:p1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "cart:p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "cart:p1"); err != nil {
		t.Fatalf("delete should be idempotent: %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	key := "cart:7f3e0b52-9d5c-4d2a-a111-000000000001"
	if err := store.Put(ctx, key, []byte(`[{"id":2}]`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	payload, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(payload) != `[{"id":2}]` {
		t.Fatalf("unexpected payload %q", payload)
	}

	if err := store.Put(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	payload, _ = store.Get(ctx, key)
	if string(payload) != `[]` {
		t.Fatalf("expected wholesale overwrite, got %q", payload)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete should be idempotent: %v", err)
	}
}

func TestFileRequiresDir(t *testing.T) {
	t.Parallel()

	if _, err := NewFile(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestRedisRequiresClient(t *testing.T) {
	t.Parallel()

	if _, err := NewRedis(nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}
