package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	echo   *echo.Echo
	cfg    config.ServerConfig
	logger zerolog.Logger
}

// New wires the middleware chain and mounts every route. Request ids are
// assigned first so the logger and the error responses can carry them.
func New(cfg config.ServerConfig, maxBodyBytes int64, logger zerolog.Logger, rec middleware.RequestRecorder, h Handlers, g handler.Guards) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dB", maxBodyBytes)))
	e.Use(middleware.Metrics(rec))

	RegisterRoutes(e, h, g)

	return &Server{echo: e, cfg: cfg, logger: logger}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks until the listener fails or Shutdown is called. A clean
// shutdown returns nil.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.logger.Info().Str("address", srv.Addr).Msg("HTTP server started")
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// errorHandler renders echo's own errors (unknown route, body limit, panics)
// in the same {"error": ...} shape the handlers use.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled error")
		msg = "internal error"
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, handler.ErrorResponse{Error: msg})
	}
	if err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("write error response")
	}
}
