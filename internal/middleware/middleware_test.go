package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth map[string]*model.User

func (s stubAuth) Authenticate(_ context.Context, raw string) (*model.User, error) {
	if raw == "" {
		return nil, usecase.Unauthenticated("Not authenticated")
	}
	if raw == "boom" {
		return nil, usecase.Internal(errors.New("db down"))
	}
	u, ok := s[raw]
	if !ok {
		return nil, usecase.Unauthenticated("Could not validate credentials")
	}
	return u, nil
}

var users = stubAuth{
	"alice-token": {ID: 1, Nickname: "alice", Role: model.RoleCustomer},
	"admin-token": {ID: 2, Nickname: "boss", Role: model.RoleAdmin},
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	whoami := func(c echo.Context) error {
		u, ok := CurrentUser(c)
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, u.Nickname)
	}

	e.GET("/me", whoami, AuthJWT(users))
	e.GET("/admin", whoami, AuthJWT(users), RequireRole(model.RoleAdmin))
	e.GET("/maybe", whoami, OptionalAuth(users))
	return e
}

func do(e *echo.Echo, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWT(t *testing.T) {
	e := newTestEcho()

	tests := []struct {
		name   string
		authz  string
		status int
		body   string
	}{
		{"valid", "Bearer alice-token", http.StatusOK, "alice"},
		{"scheme is case insensitive", "bearer alice-token", http.StatusOK, "alice"},
		{"missing header", "", http.StatusUnauthorized, `{"error":"Not authenticated"}`},
		{"wrong scheme", "Basic alice-token", http.StatusUnauthorized, `{"error":"Not authenticated"}`},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, `{"error":"Could not validate credentials"}`},
		{"lookup failure", "Bearer boom", http.StatusInternalServerError, `{"error":"internal error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, "/me", tt.authz)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := newTestEcho()

	rec := do(e, "/admin", "Bearer alice-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Not enough permissions"}`, rec.Body.String())

	rec = do(e, "/admin", "Bearer admin-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "boss", rec.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	e := newTestEcho()

	assert.Equal(t, "anonymous", do(e, "/maybe", "").Body.String())
	assert.Equal(t, "anonymous", do(e, "/maybe", "Bearer nope").Body.String())
	assert.Equal(t, "alice", do(e, "/maybe", "Bearer alice-token").Body.String())
}

type recordedRequest struct {
	method, route string
	status        int
}

type requestSpy struct{ got []recordedRequest }

func (s *requestSpy) RecordRequest(_ context.Context, method, route string, status int, _ float64) {
	s.got = append(s.got, recordedRequest{method, route, status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	spy := &requestSpy{}
	e := echo.New()
	e.Use(Metrics(spy))
	e.GET("/products/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "gone")
	})

	rec := do(e, "/products/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, spy.got, 1)
	assert.Equal(t, recordedRequest{http.MethodGet, "/products/:id", http.StatusNotFound}, spy.got[0])
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/fail", func(c echo.Context) error { return errors.New("kaput") })

	do(e, "/ok", "")
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"status":204`)
	assert.Contains(t, buf.String(), `"path":"/ok"`)

	buf.Reset()
	rec := do(e, "/fail", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "kaput")
}
