package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/work21/portal/internal/api/metrics"
)

// Metrics records the count and latency of every request by route. Handler
// errors are rendered here so the recorded status is the one sent.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Response().Status)).Inc()
			return nil
		}
	}
}
