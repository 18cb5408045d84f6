// Package ratelimit counts attempts per key in fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Limiter reports whether one more attempt for key fits in the current window.
// On a backend error Allow returns true alongside the error.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter shares counters between server instances.
type RedisLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		redis:  client,
		limit:  limit,
		window: window,
		prefix: "gadget:ratelimit",
	}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("[ratelimit NewRedisClient] parse url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", rl.prefix, key)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("redis error: %w", err)
	}

	// first hit of a window, or a key that lost its expiry
	if ttl.Val() < 0 {
		if err := rl.redis.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return true, fmt.Errorf("redis error: %w", err)
		}
	}
	return incr.Val() <= int64(rl.limit), nil
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps counters for the most recently seen keys in process.
type MemoryLimiter struct {
	windows *lru.LRU[string, *window]
	limit   int
	period  time.Duration
	nowFunc func() time.Time
	lock    sync.Mutex
}

type MemoryOption func(*MemoryLimiter)

func WithNowFunc(now func() time.Time) MemoryOption {
	return func(ml *MemoryLimiter) {
		ml.nowFunc = now
	}
}

const maxTrackedKeys = 10000

func NewMemoryLimiter(limit int, period time.Duration, options ...MemoryOption) *MemoryLimiter {
	ml := &MemoryLimiter{
		windows: lru.NewLRU[string, *window](maxTrackedKeys, nil, period),
		limit:   limit,
		period:  period,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(ml)
	}
	return ml
}

func (ml *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	ml.lock.Lock()
	defer ml.lock.Unlock()

	now := ml.nowFunc()
	w, ok := ml.windows.Get(key)
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(ml.period)}
		ml.windows.Add(key, w)
	}
	w.count++
	return w.count <= ml.limit, nil
}
