package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/auth-gateway/internal/config"
)

// ErrStoreUnavailable wraps transport failures against the backing store.
var ErrStoreUnavailable = errors.New("rate limit store unavailable")

// Result reports the outcome of a limiter check.
type Result struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter is a fixed-window request counter backed by Redis. A window opens
// on the first request for a key and closes when its TTL lapses; requests
// within the window never extend it.
type Limiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// New builds a limiter from config.
func New(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	limit := int64(cfg.Count)
	if limit <= 0 {
		limit = 10
	}
	window := cfg.Window()
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{client: client, limit: limit, window: window}
}

// Check atomically increments the counter for key and reports whether the
// request is within the limit. The window TTL is set only when the counter
// is created, so concurrent callers cannot keep the window open forever.
func (l *Limiter) Check(ctx context.Context, key string) (Result, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	if count > l.limit {
		ttl, err := l.client.TTL(ctx, key).Result()
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		retryAfter := ttl
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return Result{Allowed: false, RetryAfter: retryAfter}, nil
	}

	return Result{Allowed: true}, nil
}

// IPKey builds the limiter key for an endpoint scoped by client address.
func IPKey(endpoint, ip string) string {
	return fmt.Sprintf("rl:%s:ip:%s", endpoint, ip)
}

// IdentityKey builds the limiter key scoped by identity and client address.
func IdentityKey(endpoint, identity, ip string) string {
	return fmt.Sprintf("rl:%s:user:%s:ip:%s", endpoint, identity, ip)
}
