package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/valaphee/flowgo/internal/infrastructure/httpapi/dto"
)

// SimpleLimiter is an in-memory, per-key token bucket limiter. Keyed
// distributed limiting (Redis-backed) is not carried here: every instance
// of this service runs its own catalog and scope table with no shared
// state to rate-limit against, so a per-process limiter is sufficient.
type SimpleLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewSimpleLimiter returns a limiter allowing r requests/sec with burst b,
// one bucket per key.
func NewSimpleLimiter(r rate.Limit, burst int) *SimpleLimiter {
	return &SimpleLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

// GetLimiter returns the bucket for key, creating it on first use.
func (l *SimpleLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// CleanupRoutine periodically discards every tracked bucket, so keys that
// stop sending requests don't accumulate memory forever.
func (l *SimpleLimiter) CleanupRoutine(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			l.limiters = make(map[string]*rate.Limiter)
			l.mu.Unlock()
		}
	}
}

// RateLimit returns middleware enforcing requestsPerSecond/burst per
// client IP, started with a background cleanup routine bound to ctx.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) echo.MiddlewareFunc {
	limiter := NewSimpleLimiter(rate.Limit(requestsPerSecond), burst)
	go limiter.CleanupRoutine(ctx, 10*time.Minute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/healthz" || c.Path() == "/metrics" {
				return next(c)
			}

			key := c.RealIP()
			if !limiter.GetLimiter(key).Allow() {
				return c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
					Error:   "rate_limit_exceeded",
					Message: "too many requests, please slow down",
				})
			}
			return next(c)
		}
	}
}
