package ports

import (
	"context"
	"time"
)

// CacheService abstracts the response cache. Backed by Redis in production
// and an in-process cache when Redis is disabled or unreachable.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// RateLimitService abstracts inbound request rate limiting.
type RateLimitService interface {
	// Allow reports whether the identifier may make another request within
	// the window.
	Allow(ctx context.Context, identifier string, limit int, window time.Duration) (bool, error)

	// Reset clears the rate limit history for an identifier.
	Reset(ctx context.Context, identifier string) error
}
