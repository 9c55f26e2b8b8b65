// Package ratelimit counts requests per key in fixed windows, either in
// process memory or in Redis when several replicas share the quota.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether another request for key fits in the current window
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func decide(limit int, count int64, resetIn time.Duration) Decision {
	d := Decision{Limit: limit, Allowed: count <= int64(limit)}
	if d.Allowed {
		d.Remaining = limit - int(count)
	} else {
		d.RetryAfter = resetIn
	}
	return d
}

// MemoryLimiter keeps counters in process memory
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	count int64
	start time.Time
}

// NewMemoryLimiter allows limit requests per key every period
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow implements Limiter
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		l.sweep(now)
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++

	return decide(l.limit, w.count, l.period-now.Sub(w.start)), nil
}

// sweep drops expired windows; callers hold mu
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.period {
			delete(l.windows, key)
		}
	}
}

// RedisLimiter keeps counters in Redis so replicas share one quota
type RedisLimiter struct {
	client    redis.UniversalClient
	keyPrefix string
	limit     int
	period    time.Duration
}

// NewRedisLimiter allows limit requests per key every period
func NewRedisLimiter(client redis.UniversalClient, prefix string, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: prefix,
		limit:     limit,
		period:    period,
	}
}

// Allow implements Limiter
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count request: %w", err)
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to read window: %w", err)
	}
	// The first request of a window, or a key left without expiry, starts the window
	if ttl < 0 {
		if err := l.client.PExpire(ctx, redisKey, l.period).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to start window: %w", err)
		}
		ttl = l.period
	}

	return decide(l.limit, count, ttl), nil
}
