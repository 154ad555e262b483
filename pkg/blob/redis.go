package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	redispkg "github.com/oakline/shopcart-backend/pkg/redis"
)

type redisCommands interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	BuildKey(parts ...string) string
}

// Redis persists blobs in Redis under the shopcart namespace. Carts survive
// process restarts but inherit whatever eviction policy the instance runs.
type Redis struct {
	client redisCommands
}

func NewRedis(client *redispkg.Client) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.client.BuildKey(key))
	if err != nil {
		if errors.Is(err, redispkg.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (r *Redis) Put(ctx context.Context, key string, payload []byte) error {
	return r.client.Set(ctx, r.client.BuildKey(key), payload, 0)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.BuildKey(key))
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
