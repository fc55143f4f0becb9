package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mz310/FitProof/internal/core/ports"
	"github.com/mz310/FitProof/internal/pkg/metrics"
)

// RateLimit takes one token per request from the bucket keyed by client IP
// and route. Limiter errors let the request through.
func RateLimit(limiter ports.RateLimiter, backend string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP() + ":" + c.Request().Method + ":" + c.Path()

			d, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("backend", backend).Str("key", key).Msg("rate limiter unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

			if !d.Allowed {
				metrics.RateLimitedTotal.WithLabelValues(backend).Inc()
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// MemoryLimiter is the in-process rate limiter, one x/time/rate bucket per key.
// Buckets idle for longer than ttl are evicted.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

var _ ports.RateLimiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter allows burst requests, refilled by refill tokens every interval.
func NewMemoryLimiter(burst, refill int, interval time.Duration) *MemoryLimiter {
	limit := rate.Inf
	if interval > 0 && refill > 0 {
		limit = rate.Limit(float64(refill) / interval.Seconds())
	}
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    limit,
		burst:    burst,
		ttl:      10 * time.Minute,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	now := l.now()
	lim := l.limiterFor(key, now)

	r := lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if !r.OK() || delay > 0 {
		r.CancelAt(now)
		return ports.RateDecision{Allowed: false, Limit: l.burst, RetryAfter: delay}, nil
	}

	remaining := int64(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateDecision{Allowed: true, Limit: l.burst, Remaining: remaining}, nil
}

func (l *MemoryLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastSeen[key] = now
	if lim, ok := l.limiters[key]; ok {
		return lim
	}

	cutoff := now.Add(-l.ttl)
	for k, seen := range l.lastSeen {
		if seen.Before(cutoff) {
			delete(l.lastSeen, k)
			delete(l.limiters, k)
		}
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = lim
	return lim
}
