package idempotency

import (
	"context"
	"time"

	"github.com/anthanhphan/gosdk/logger"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "idem:"

// RedisGuard backs the ledger with Redis so it survives process restarts and
// is shared between coordinator instances. Identifiers expire after the
// configured TTL; the TTL must exceed the caller's retry window.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

// NewRedisGuard creates a guard over an existing Redis client. A zero ttl
// keeps records until Redis evicts them.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{
		client: client,
		ttl:    ttl,
		ctx:    context.Background(),
	}
}

func (g *RedisGuard) Seen(id string) bool {
	n, err := g.client.Exists(g.ctx, redisKeyPrefix+id).Result()
	if err != nil {
		// Treat an unreachable ledger as unseen: the operation may run
		// again, which is the at-least-once side of the tradeoff.
		logger.Warnw("Idempotency lookup failed", "id", id, "error", err.Error())
		return false
	}
	return n > 0
}

func (g *RedisGuard) Record(id string) {
	if err := g.client.Set(g.ctx, redisKeyPrefix+id, 1, g.ttl).Err(); err != nil {
		logger.Warnw("Idempotency record failed", "id", id, "error", err.Error())
	}
}

// Acquire records id only if unseen, atomically via SETNX. Exactly one of
// several racing callers observes true.
func (g *RedisGuard) Acquire(id string) bool {
	ok, err := g.client.SetNX(g.ctx, redisKeyPrefix+id, 1, g.ttl).Result()
	if err != nil {
		logger.Warnw("Idempotency acquire failed", "id", id, "error", err.Error())
		return false
	}
	return ok
}

var _ Guard[string] = (*RedisGuard)(nil)
