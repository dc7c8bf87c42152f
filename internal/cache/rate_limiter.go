package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter is a fixed window counter per key.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Allow counts one hit for key.
func (l *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.prefix + ":" + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		ttl = p.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	resetIn := ttl.Val()
	if resetIn < 0 {
		// first hit in the window, or a key left without expiry
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return Decision{}, err
		}
		resetIn = l.window
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}
