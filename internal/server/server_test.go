package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/repository/mocks"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	users := new(mocks.UserRepositoryMock)
	products := new(mocks.ProductRepositoryMock)
	categories := new(mocks.CategoryRepositoryMock)
	auditLogs := new(mocks.AuditLogRepositoryMock)
	tx := mocks.NewTxManagerMock()

	tokens := auth.NewJWTService("secret", time.Minute, nil)
	hasher := auth.NewBcryptPasswordHasher(bcrypt.MinCost)
	productUC := usecase.NewProductUsecase(products, categories, auditLogs, tx, 1024)

	h := Handlers{
		Health: handler.NewHealthHandler(okPinger{}, "test", "1.0.0"),
		Auth: handler.NewAuthHandler(
			auth.NewRegisterUserUsecase(users, hasher),
			auth.NewLoginUsecase(users, hasher, tokens),
			auth.NewProfileUsecase(users, hasher),
		),
		Categories:   handler.NewCategoryHandler(usecase.NewCategoryUsecase(categories, auditLogs)),
		Products:     handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, 1024),
		Cart:         handler.NewCartHandler(usecase.NewCartUsecase(new(mocks.CartItemRepositoryMock), products, categories)),
		Orders:       handler.NewOrderHandler(usecase.NewOrderUsecase(tx, new(mocks.OrderRepositoryMock), new(mocks.OrderItemRepositoryMock), nil, nil)),
		AdminOrders:  handler.NewAdminOrderHandler(usecase.NewAdminOrderUsecase(tx, new(mocks.OrderRepositoryMock), new(mocks.OrderItemRepositoryMock), users, nil)),
		AuditLogs:    handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(auditLogs)),
	}
	cfg := config.ServerConfig{Port: "0", CORSOrigins: []string{"http://localhost:4200"}}
	g := handler.NewGuards(auth.NewAuthenticator(tokens, users))
	return New(cfg, 4096, zerolog.Nop(), metrics.Noop(), h, g)
}

func TestServer_HealthCarriesRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_UnknownRouteUsesErrorShape(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:4200")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:4200", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestServer_BodyLimit(t *testing.T) {
	s := newTestServer(t)

	big := make([]byte, 8192)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(big))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
