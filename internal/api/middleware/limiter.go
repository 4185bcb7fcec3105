package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/work21/portal/internal/api/metrics"
)

// ErrTooManyAttempts is the message returned when a client IP is throttled.
const ErrTooManyAttempts = "Слишком много попыток, попробуйте позже"

// IPRateLimiter throttles login and registration attempts per client IP with
// a token bucket for each address.
type IPRateLimiter struct {
	mu     sync.RWMutex
	limits map[string]*rate.Limiter
	r      rate.Limit
	b      int
	log    zerolog.Logger
}

func NewIPRateLimiter(r rate.Limit, b int, log zerolog.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		log:    log,
	}
}

// Limiter returns the bucket of ip, creating it on first use.
func (i *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	i.mu.RLock()
	l, ok := i.limits[ip]
	i.mu.RUnlock()
	if ok {
		return l
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if l, ok = i.limits[ip]; !ok {
		l = rate.NewLimiter(i.r, i.b)
		i.limits[ip] = l
	}
	return l
}

// Cleanup drops buckets that have refilled completely and returns how many
// were removed.
func (i *IPRateLimiter) Cleanup(now time.Time) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	removed := 0
	for ip, l := range i.limits {
		if l.TokensAt(now) >= float64(l.Burst()) {
			delete(i.limits, ip)
			removed++
		}
	}
	return removed
}

// Run periodically cleans up idle buckets until ctx is done.
func (i *IPRateLimiter) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := i.Cleanup(now); n > 0 {
				i.log.Debug().Int("removed", n).Msg("login limiter cleanup")
			}
		}
	}
}

// Middleware answers 429 once the client IP has used up its bucket.
func (i *IPRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown_ip"
			}
			if !i.Limiter(ip).Allow() {
				metrics.LoginThrottledTotal.Inc()
				i.log.Warn().Str("ip", ip).Str("path", c.Path()).Msg("login attempt throttled")
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": ErrTooManyAttempts})
			}
			return next(c)
		}
	}
}
