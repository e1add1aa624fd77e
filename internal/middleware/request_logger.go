package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger writes one line per request and puts a request-scoped logger
// into the request context for zerolog.Ctx. It runs inside echo's RequestID middleware.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			reqLogger := logger.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				// let echo write the response so the status below is final
				c.Error(err)
			}

			res := c.Response()
			var ev *zerolog.Event
			switch {
			case res.Status >= 500:
				ev = reqLogger.Error().Err(err)
			case res.Status >= 400:
				ev = reqLogger.Warn()
			default:
				ev = reqLogger.Info()
			}

			ev.Str("method", req.Method).
				Str("path", c.Path()).
				Str("uri", req.RequestURI).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
