package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestRecorder is satisfied by metrics.AppMetrics.
type RequestRecorder interface {
	RecordRequest(ctx context.Context, method, route string, status int, ms float64)
}

// Metrics records count, errors and latency per route template.
func Metrics(rec RequestRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unknown"
			}
			ms := float64(time.Since(start).Microseconds()) / 1000
			rec.RecordRequest(c.Request().Context(), c.Request().Method, route, c.Response().Status, ms)
			return nil
		}
	}
}
