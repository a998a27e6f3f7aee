// Package ratelimit implements a Redis-backed fixed-window request limiter
// shared by the HTTP and gRPC transports.
package ratelimit

import (
	"context"
	"fmt"
	"math"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds configuration for the rate limiter.
type Config struct {
	RequestsPerSecond float64
	WindowSeconds     int
	Enabled           bool
}

// MaxRequests returns the number of requests allowed per window, never less than one.
func (c Config) MaxRequests() int64 {
	n := int64(math.Floor(c.RequestsPerSecond * float64(c.WindowSeconds)))
	if n < 1 {
		return 1
	}
	return n
}

// fixedWindow increments the counter for KEYS[1] and starts its window on the first hit.
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
end
return count
`)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed bool
	Count   int64
	Limit   int64
}

// Limiter counts requests per key in Redis.
type Limiter struct {
	client *redis.Client
	config Config
	log    *zap.Logger
}

// New creates a Limiter. A nil client or a disabled config allows every request.
func New(client *redis.Client, config Config, log *zap.Logger) *Limiter {
	return &Limiter{
		client: client,
		config: config,
		log:    log,
	}
}

// Enabled reports whether requests are actually counted.
func (l *Limiter) Enabled() bool {
	return l != nil && l.config.Enabled && l.client != nil
}

// Config returns the limiter configuration.
func (l *Limiter) Config() Config {
	return l.config
}

// Allow records one request for scope and client and reports whether it fits the window.
// Redis failures allow the request (fail open).
func (l *Limiter) Allow(ctx context.Context, scope, client string) Decision {
	if !l.Enabled() {
		return Decision{Allowed: true}
	}

	limit := l.config.MaxRequests()
	key := Key(scope, client)

	count, err := fixedWindow.Run(ctx, l.client, []string{key}, l.config.WindowSeconds).Int64()
	if err != nil {
		l.log.Warn("rate limiter redis error, allowing request",
			zap.String("client_ip", client),
			zap.String("scope", scope),
			zap.Error(err),
		)
		return Decision{Allowed: true, Limit: limit}
	}

	if count > limit {
		l.log.Warn("rate limit exceeded",
			zap.String("client_ip", client),
			zap.String("scope", scope),
			zap.Int64("count", count),
			zap.Int64("limit", limit),
		)
		return Decision{Allowed: false, Count: count, Limit: limit}
	}

	return Decision{Allowed: true, Count: count, Limit: limit}
}

// Key builds the Redis key for scope and client: ratelimit:{scope}:{client}.
func Key(scope, client string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, client)
}
