package middleware

import (
	"storefront/internal/domain/model"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// RequireRole runs after AuthJWT and lets only users with role through.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := CurrentUser(c)
			if err := auth.RequireRole(user, role); err != nil {
				return fail(c, err)
			}
			return next(c)
		}
	}
}
