package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// writeError maps the usecase taxonomy onto a status code. Internal causes are logged, never sent.
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	appErr, ok := usecase.AsAppError(err)
	if !ok {
		appErr = usecase.Internal(err)
	}

	switch appErr.Kind {
	case usecase.KindInvalid:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
	case usecase.KindNotFound:
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: appErr.Message})
	case usecase.KindUnauthenticated:
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: appErr.Message})
	case usecase.KindForbidden:
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: appErr.Message})
	}

	zerolog.Ctx(c.Request().Context()).Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("internal error")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

var errInvalidBody = usecase.Invalid("Invalid request body")

// bindAndValidate decodes the body (JSON or form) and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	return c.Validate(req)
}

func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.Invalid("Invalid " + name)
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.Invalid("Invalid " + name)
	}
	return i, nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, usecase.Invalid("Invalid " + name)
	}
	return &b, nil
}
