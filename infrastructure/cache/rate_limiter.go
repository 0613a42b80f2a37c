package cache

import (
	"context"
	"fmt"
	"time"
)

type IRateLimiter interface {
	// Allow reports whether key may proceed and, when it may not, how long
	// until the current window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	counter WindowCounter
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(counter WindowCounter, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{counter: counter, limit: limit, window: window, now: time.Now}
}

func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := l.now()
	start := now.Truncate(l.window)
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, start.Unix())

	count, err := l.counter.Incr(ctx, bucket, l.window)
	if err != nil {
		return false, 0, err
	}
	if count > int64(l.limit) {
		return false, start.Add(l.window).Sub(now), nil
	}
	return true, 0, nil
}
