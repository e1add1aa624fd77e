package handler

import (
	"context"
	"net/http"
	"time"

	repo "storefront/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type HealthHandler struct {
	db          repo.Pinger
	environment string
	version     string
}

func NewHealthHandler(db repo.Pinger, environment, version string) *HealthHandler {
	return &HealthHandler{db: db, environment: environment, version: version}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.root)
	e.GET("/health", h.health)
}

func (h *HealthHandler) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message":     "Storefront API",
		"version":     h.version,
		"status":      "running",
		"environment": h.environment,
	})
}

func (h *HealthHandler) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    "database unreachable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":      "healthy",
		"database":    "connected",
		"environment": h.environment,
	})
}
