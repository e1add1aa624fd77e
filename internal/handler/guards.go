package handler

import (
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Guards are the route-level middlewares every handler group picks from.
type Guards struct {
	Auth     echo.MiddlewareFunc // bearer token required
	Optional echo.MiddlewareFunc // user when a valid token is sent
	Admin    echo.MiddlewareFunc // after Auth
}

func NewGuards(a middleware.Authenticator) Guards {
	return Guards{
		Auth:     middleware.AuthJWT(a),
		Optional: middleware.OptionalAuth(a),
		Admin:    middleware.RequireRole(model.RoleAdmin),
	}
}

func currentUser(c echo.Context) (*model.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, usecase.Unauthenticated("Not authenticated")
	}
	return user, nil
}
