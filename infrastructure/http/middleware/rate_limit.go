package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/campusdesk/students/application/port/inbound"
	"github.com/campusdesk/students/infrastructure/http/response"
	"github.com/campusdesk/students/infrastructure/service/logger"
)

const tooManyRequestsMessage = "Too many requests. Please try again later."

type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	logger           logger.Logger
	limit            int
	window           time.Duration
}

func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, log logger.Logger, limit int, window time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		logger:           log,
		limit:            limit,
		window:           window,
	}
}

// RateLimit counts requests per calling service, or per client IP when no
// service identity is on the context. Limiter errors let the request through.
func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.rateLimitService == nil || m.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := rateLimitKey(r)

		allowed, retryAfter, err := m.rateLimitService.Allow(ctx, key, m.limit, m.window)
		if err != nil {
			m.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{
				"key": key,
			})
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "MEDIUM", map[string]interface{}{
				"key":       key,
				"path":      r.URL.Path,
				"limit":     m.limit,
				"userAgent": r.UserAgent(),
			})

			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(retryAfter)))
			response.TooManyRequests(w, tooManyRequestsMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func rateLimitKey(r *http.Request) string {
	if identity := ServiceIdentityFromContext(r.Context()); identity != nil {
		return "service:" + identity.ID
	}
	return "ip:" + getClientIP(r)
}

func retryAfterSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
