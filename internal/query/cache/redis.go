package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	dErrors "rdhub/pkg/domain-errors"
)

// Redis backs the memoization layer with a shared Redis instance so multiple
// replicas serve from one cache. Entries carry a TTL; structural
// invalidation via the frame fingerprint makes expiry a cost bound, not a
// correctness mechanism.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps a connected client. A non-positive ttl disables expiry.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "redis get")
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "redis set")
	}
	return nil
}
