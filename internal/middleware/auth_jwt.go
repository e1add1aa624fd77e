package middleware

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const CtxUserKey = "user" // *model.User

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.User, error)
}

// AuthJWT requires a valid bearer token and stores the user in the context.
func AuthJWT(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := auth.Authenticate(c.Request().Context(), bearerToken(c))
			if err != nil {
				return fail(c, err)
			}

			c.Set(CtxUserKey, user)
			return next(c)
		}
	}
}

// OptionalAuth sets the user when a valid token is sent and otherwise carries on anonymously.
func OptionalAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := bearerToken(c); raw != "" {
				if user, err := auth.Authenticate(c.Request().Context(), raw); err == nil {
					c.Set(CtxUserKey, user)
				}
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user AuthJWT or OptionalAuth stored.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(CtxUserKey).(*model.User)
	return user, ok && user != nil
}

// bearerToken returns "" unless the header is "Bearer <token>".
func bearerToken(c echo.Context) string {
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

func fail(c echo.Context, err error) error {
	appErr, ok := usecase.AsAppError(err)
	if !ok {
		appErr = usecase.Internal(err)
	}

	switch appErr.Kind {
	case usecase.KindUnauthenticated:
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return c.JSON(http.StatusUnauthorized, errorJSON(appErr.Message))
	case usecase.KindForbidden:
		return c.JSON(http.StatusForbidden, errorJSON(appErr.Message))
	}
	zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("authentication failed")
	return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
}
