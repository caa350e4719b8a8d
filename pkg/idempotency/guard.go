package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds our token, so an
// attempt whose TTL expired cannot free a lock taken over by another one.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Guard is a short-lived in-flight marker for order placement attempts. It
// narrows the window in which two attempts with the same key both reserve
// stock; the orders table's unique constraint stays the source of truth.
type Guard struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewGuard(rdb redis.Cmdable, ttl time.Duration) *Guard {
	return &Guard{rdb: rdb, ttl: ttl}
}

func (g *Guard) Key(tenantID, idempotencyKey string) string {
	return fmt.Sprintf("idem:order:%s:%s", tenantID, idempotencyKey)
}

// Acquire reports whether the caller now owns the key. The returned release
// func is non-nil only when acquired is true.
func (g *Guard) Acquire(ctx context.Context, tenantID, idempotencyKey string) (release func(context.Context) error, acquired bool, err error) {
	key := g.Key(tenantID, idempotencyKey)
	token := uuid.NewString()

	ok, err := g.rdb.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("idempotency setnx %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, g.rdb, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("idempotency release %s: %w", key, err)
		}
		return nil
	}
	return release, true, nil
}
