package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/repository/mocks"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	e          *echo.Echo
	users      *mocks.UserRepositoryMock
	products   *mocks.ProductRepositoryMock
	categories *mocks.CategoryRepositoryMock
	cart       *mocks.CartItemRepositoryMock
	orders     *mocks.OrderRepositoryMock
	orderItems *mocks.OrderItemRepositoryMock
	auditLogs  *mocks.AuditLogRepositoryMock
	tx         *mocks.TxManagerMock
	tokens     *auth.JWTService
	hasher     *auth.BcryptPasswordHasher
	db         *pingStub
}

type pingStub struct{ err error }

func (p *pingStub) Ping(context.Context) error { return p.err }

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	a := &testApp{
		e:          echo.New(),
		users:      new(mocks.UserRepositoryMock),
		products:   new(mocks.ProductRepositoryMock),
		categories: new(mocks.CategoryRepositoryMock),
		cart:       new(mocks.CartItemRepositoryMock),
		orders:     new(mocks.OrderRepositoryMock),
		orderItems: new(mocks.OrderItemRepositoryMock),
		auditLogs:  new(mocks.AuditLogRepositoryMock),
		tx:         mocks.NewTxManagerMock(),
		tokens:     auth.NewJWTService("test-secret", time.Hour, nil),
		hasher:     auth.NewBcryptPasswordHasher(bcrypt.MinCost),
		db:         &pingStub{},
	}
	a.e.Validator = validator.New()

	g := NewGuards(auth.NewAuthenticator(a.tokens, a.users))
	productUC := usecase.NewProductUsecase(a.products, a.categories, a.auditLogs, a.tx, 1024)

	NewHealthHandler(a.db, "test", "1.0.0").RegisterRoutes(a.e)
	NewAuthHandler(
		auth.NewRegisterUserUsecase(a.users, a.hasher),
		auth.NewLoginUsecase(a.users, a.hasher, a.tokens),
		auth.NewProfileUsecase(a.users, a.hasher),
	).RegisterRoutes(a.e, g)
	NewCategoryHandler(usecase.NewCategoryUsecase(a.categories, a.auditLogs)).RegisterRoutes(a.e, g)
	NewProductHandler(productUC).RegisterRoutes(a.e, g)
	NewAdminProductHandler(productUC, 1024).RegisterRoutes(a.e, g)
	NewCartHandler(usecase.NewCartUsecase(a.cart, a.products, a.categories)).RegisterRoutes(a.e, g)
	NewOrderHandler(usecase.NewOrderUsecase(a.tx, a.orders, a.orderItems, nil, nil)).RegisterRoutes(a.e, g)
	NewAdminOrderHandler(usecase.NewAdminOrderUsecase(a.tx, a.orders, a.orderItems, a.users, nil)).RegisterRoutes(a.e, g)
	NewAuditLogHandler(usecase.NewAuditLogUsecase(a.auditLogs)).RegisterRoutes(a.e, g)
	return a
}

// login registers u with the user mock and returns a bearer token for it.
func (a *testApp) login(t *testing.T, u *model.User) string {
	t.Helper()
	a.users.On("FindByID", mock.Anything, u.ID).Return(u, nil)
	token, _, err := a.tokens.Issue(u.ID, u.Role)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

var (
	alice = &model.User{ID: 5, Email: "alice@example.com", Nickname: "alice", Role: model.RoleCustomer}
	boss  = &model.User{ID: 9, Email: "boss@example.com", Nickname: "boss", Role: model.RoleAdmin}
)

func TestRegister_Created(t *testing.T) {
	a := newTestApp(t)
	a.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repo.ErrNotFound)
	a.users.On("FindByNickname", mock.Anything, "alice").Return(nil, repo.ErrNotFound)

	var stored *model.User
	a.users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.User)
			stored.ID = 5
		}).Return(nil)

	rec := a.do(http.MethodPost, "/auth/register", `{
		"email": "Alice@Example.com",
		"nickname": "alice",
		"password": "password1",
		"password_confirm": "password1",
		"city": "Berlin"
	}`, "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, stored)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	assert.True(t, a.hasher.Verify("password1", stored.PasswordHash))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, "customer", body["role"])
	assert.Equal(t, "Berlin", body["city"])
	assert.NotContains(t, body, "password_hash")
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "password mismatch",
			body: `{"email":"a@example.com","nickname":"alice","password":"password1","password_confirm":"password2"}`,
			want: "Passwords do not match",
		},
		{
			name: "short password",
			body: `{"email":"a@example.com","nickname":"alice","password":"short","password_confirm":"short"}`,
			want: "password must be at least 8 characters",
		},
		{
			name: "bad nickname",
			body: `{"email":"a@example.com","nickname":"a lice","password":"password1","password_confirm":"password1"}`,
			want: "nickname may only contain",
		},
		{
			name: "malformed json",
			body: `{"email":`,
			want: "Invalid request body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			rec := a.do(http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			a.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	a := newTestApp(t)
	a.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(alice, nil)

	rec := a.do(http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","nickname":"alice2","password":"password1","password_confirm":"password1"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, rec.Body.String())
}

func TestLoginWithNickname_ThenMe(t *testing.T) {
	a := newTestApp(t)
	hash, err := a.hasher.Hash("password1")
	require.NoError(t, err)
	stored := *alice
	stored.PasswordHash = hash
	a.users.On("FindByLogin", mock.Anything, "alice").Return(&stored, nil)
	a.users.On("FindByID", mock.Anything, int64(5)).Return(&stored, nil)

	// OAuth2 password form
	form := url.Values{"username": {"alice"}, "password": {"password1"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	assert.Equal(t, "bearer", tok.TokenType)

	rec = a.do(http.MethodGet, "/auth/me", "", tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me["nickname"])
	assert.Equal(t, "customer", me["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newTestApp(t)
	hash, err := a.hasher.Hash("password1")
	require.NoError(t, err)
	stored := *alice
	stored.PasswordHash = hash
	a.users.On("FindByLogin", mock.Anything, "alice").Return(&stored, nil)

	rec := a.do(http.MethodPost, "/auth/login", `{"username":"alice","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	assert.JSONEq(t, `{"error":"Incorrect email/nickname or password"}`, rec.Body.String())
}

func TestMe_RequiresToken(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodGet, "/auth/me", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Could not validate credentials"}`, rec.Body.String())
}

func TestAdminStatus_ForbiddenForCustomer(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, alice)

	rec := a.do(http.MethodPut, "/orders/admin/1/status", `{"status":"Delivered"}`, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Not enough permissions"}`, rec.Body.String())
	a.tx.Repos.OrdersRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

func TestAdminStatus_Update(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, boss)
	r := a.tx.Repos

	r.OrdersRepo.On("FindByIDForUpdate", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, UserID: 5, Status: model.OrderStatusPending}, nil)
	r.OrdersRepo.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusDelivered, mock.Anything).Return(nil)
	r.AuditLogsRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.OrderItemsRepo.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
	a.users.On("FindByIDs", mock.Anything, []int64{5}).Return([]model.User{*alice}, nil)

	rec := a.do(http.MethodPut, "/orders/admin/1/status", `{"status":"delivered","note":"left at door"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Delivered", body["status"])
	assert.Contains(t, body["admin_notes"], "boss: left at door")
	assert.Equal(t, "alice", body["user"].(map[string]any)["nickname"])
}

func TestAdminStatus_InvalidStatus(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, boss)

	rec := a.do(http.MethodPut, "/orders/admin/1/status", `{"status":"Shipped"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid status"}`, rec.Body.String())
}

func TestCheckout_EmptyCart(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, alice)
	a.tx.Repos.CartItemsRepo.On("LockByUserID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	rec := a.do(http.MethodPost, "/orders/checkout", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Cart is empty"}`, rec.Body.String())
}

func TestCart_RemoveAndClearAreNoContent(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, alice)
	a.cart.On("DeleteForUser", mock.Anything, int64(77), int64(5)).Return(nil)
	a.cart.On("DeleteByUserID", mock.Anything, int64(5)).Return(nil)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/cart/items/77", "", token).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/cart", "", token).Code)
}

func TestCart_AddDefaultsQuantity(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, alice)
	a.products.On("FindByID", mock.Anything, int64(3)).Return(model.Product{
		ID: 3, CategoryID: 1, Title: "Tee", BasePrice: decimal.RequireFromString("9.99"), IsActive: true,
	}, nil)
	a.cart.On("ListByUserAndProduct", mock.Anything, int64(5), int64(3)).Return([]model.CartItem{}, nil)
	a.cart.On("Create", mock.Anything, mock.MatchedBy(func(l *model.CartItem) bool {
		return l.Quantity == 1 && l.UserID == 5
	})).Return(nil)
	a.categories.On("FindByIDs", mock.Anything, []int64{1}).Return([]model.ProductCategory{{ID: 1, Title: "Tees"}}, nil)

	rec := a.do(http.MethodPost, "/cart/items", `{"product_id":3,"selected_options":{"size":"M"}}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"size":"M"`)
}

func TestOrders_ForeignOrderIsNotFound(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, alice)
	a.orders.On("FindByID", mock.Anything, int64(12)).Return(model.Order{ID: 12, UserID: 99}, nil)

	rec := a.do(http.MethodGet, "/orders/12", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Order not found"}`, rec.Body.String())
}

func TestProducts_IncludeInactiveOnlyForAdmins(t *testing.T) {
	a := newTestApp(t)
	active := true
	a.products.On("List", mock.Anything, repo.ProductListFilter{IsActive: &active}).Return([]model.Product{}, nil).Once()
	a.products.On("List", mock.Anything, repo.ProductListFilter{}).Return([]model.Product{}, nil).Once()
	a.categories.On("FindByIDs", mock.Anything, mock.Anything).Return([]model.ProductCategory{}, nil)

	customer := a.login(t, alice)
	rec := a.do(http.MethodGet, "/products?include_inactive=true", "", customer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	admin := a.login(t, boss)
	rec = a.do(http.MethodGet, "/products?include_inactive=true", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	a.products.AssertExpectations(t)
}

func TestProductImage_Redirect(t *testing.T) {
	a := newTestApp(t)
	img := "https://cdn.example/tee.png"
	a.products.On("FindByID", mock.Anything, int64(3)).Return(model.Product{ID: 3, Image: &img}, nil)

	rec := a.do(http.MethodGet, "/products/3/image", "", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, img, rec.Header().Get(echo.HeaderLocation))
}

func TestProductUpload_Multipart(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, boss)
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

	a.products.On("FindByID", mock.Anything, int64(3)).Return(model.Product{ID: 3, CategoryID: 1, Title: "Tee"}, nil)
	a.products.On("SetImage", mock.Anything, int64(3), png, "image/png").Return(nil)
	a.categories.On("FindByIDs", mock.Anything, []int64{1}).Return([]model.ProductCategory{}, nil)
	a.auditLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("product_id", "3"))
	part, err := w.CreateFormFile("file", "tee.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/products/upload-image", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"image":"/products/3/image"`)
}

func TestProductAdjustments_AdminOnly(t *testing.T) {
	a := newTestApp(t)
	a.products.On("FindByID", mock.Anything, int64(3)).Return(model.Product{ID: 3}, nil)
	a.tx.Repos.InventoryRepo.On("ListAdjustments", mock.Anything, int64(3)).Return([]model.InventoryAdjustment{
		{ID: 1, ProductID: 3, AdminUserID: 9, Delta: 4, Reason: "admin product update"},
	}, nil)

	rec := a.do(http.MethodGet, "/products/3/adjustments", "", a.login(t, alice))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodGet, "/products/3/adjustments", "", a.login(t, boss))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"delta":4`)
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"connected","environment":"test"}`, rec.Body.String())

	a.db.err = errors.New("connection refused")
	rec = a.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}

func TestCategories_DeleteIsAdminOnly(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, alice)

	rec := a.do(http.MethodDelete, "/products/categories/1", "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
