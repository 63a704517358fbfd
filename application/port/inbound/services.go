package inbound

import (
	"context"
	"time"
)

// RateLimitService defines fixed-window rate limiting used by the HTTP middleware.
// Implemented by infrastructure/service/ratelimit.
type RateLimitService interface {
	// Allow records one hit for key and reports whether it is within limit for the
	// current window. When it is not, retryAfter is the time left in the window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error)
}
