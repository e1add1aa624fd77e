// Package mocks holds testify mocks for the repository ports.
package mocks

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// UserRepository
// =====================

type UserRepositoryMock struct{ mock.Mock }

var _ repo.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) FindByNickname(ctx context.Context, nickname string) (*model.User, error) {
	args := m.Called(ctx, nickname)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepositoryMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) FindByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	args := m.Called(ctx, ids)
	u, _ := args.Get(0).([]model.User)
	return u, args.Error(1)
}

// =====================
// CategoryRepository
// =====================

type CategoryRepositoryMock struct{ mock.Mock }

var _ repo.CategoryRepository = (*CategoryRepositoryMock)(nil)

func (m *CategoryRepositoryMock) List(ctx context.Context) ([]model.ProductCategory, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]model.ProductCategory)
	return c, args.Error(1)
}

func (m *CategoryRepositoryMock) FindByID(ctx context.Context, id int64) (model.ProductCategory, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.ProductCategory)
	return c, args.Error(1)
}

func (m *CategoryRepositoryMock) FindByIDs(ctx context.Context, ids []int64) ([]model.ProductCategory, error) {
	args := m.Called(ctx, ids)
	c, _ := args.Get(0).([]model.ProductCategory)
	return c, args.Error(1)
}

func (m *CategoryRepositoryMock) Create(ctx context.Context, c *model.ProductCategory) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepositoryMock) Update(ctx context.Context, c *model.ProductCategory) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepositoryMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// ProductRepository
// =====================

type ProductRepositoryMock struct{ mock.Mock }

var _ repo.ProductRepository = (*ProductRepositoryMock)(nil)

func (m *ProductRepositoryMock) List(ctx context.Context, f repo.ProductListFilter) ([]model.Product, error) {
	args := m.Called(ctx, f)
	p, _ := args.Get(0).([]model.Product)
	return p, args.Error(1)
}

func (m *ProductRepositoryMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepositoryMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	p, _ := args.Get(0).([]model.Product)
	return p, args.Error(1)
}

func (m *ProductRepositoryMock) LockByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	p, _ := args.Get(0).([]model.Product)
	return p, args.Error(1)
}

func (m *ProductRepositoryMock) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepositoryMock) Update(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepositoryMock) SetImage(ctx context.Context, id int64, data []byte, mimeType string) error {
	args := m.Called(ctx, id, data, mimeType)
	return args.Error(0)
}

func (m *ProductRepositoryMock) LoadImage(ctx context.Context, id int64) ([]byte, string, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).([]byte)
	return b, args.String(1), args.Error(2)
}

func (m *ProductRepositoryMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// InventoryRepository
// =====================

type InventoryRepositoryMock struct{ mock.Mock }

var _ repo.InventoryRepository = (*InventoryRepositoryMock)(nil)

func (m *InventoryRepositoryMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepositoryMock) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

func (m *InventoryRepositoryMock) ListAdjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error) {
	args := m.Called(ctx, productID)
	a, _ := args.Get(0).([]model.InventoryAdjustment)
	return a, args.Error(1)
}

// =====================
// CartItemRepository
// =====================

type CartItemRepositoryMock struct{ mock.Mock }

var _ repo.CartItemRepository = (*CartItemRepositoryMock)(nil)

func (m *CartItemRepositoryMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepositoryMock) LockByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepositoryMock) ListByUserAndProduct(ctx context.Context, userID int64, productID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepositoryMock) FindByIDForUser(ctx context.Context, itemID int64, userID int64) (model.CartItem, error) {
	args := m.Called(ctx, itemID, userID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepositoryMock) Create(ctx context.Context, item *model.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartItemRepositoryMock) AddQuantity(ctx context.Context, itemID int64, delta int64) error {
	args := m.Called(ctx, itemID, delta)
	return args.Error(0)
}

func (m *CartItemRepositoryMock) Update(ctx context.Context, item *model.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartItemRepositoryMock) DeleteForUser(ctx context.Context, itemID int64, userID int64) error {
	args := m.Called(ctx, itemID, userID)
	return args.Error(0)
}

func (m *CartItemRepositoryMock) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *CartItemRepositoryMock) DeleteByIDs(ctx context.Context, userID int64, ids []int64) error {
	args := m.Called(ctx, userID, ids)
	return args.Error(0)
}

// =====================
// OrderRepository
// =====================

type OrderRepositoryMock struct{ mock.Mock }

var _ repo.OrderRepository = (*OrderRepositoryMock)(nil)

func (m *OrderRepositoryMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepositoryMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepositoryMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepositoryMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	o, _ := args.Get(0).([]model.Order)
	return o, args.Error(1)
}

func (m *OrderRepositoryMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	o, _ := args.Get(0).([]model.Order)
	return o, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepositoryMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, adminNotes *string) error {
	args := m.Called(ctx, orderID, status, adminNotes)
	return args.Error(0)
}

// =====================
// OrderItemRepository
// =====================

type OrderItemRepositoryMock struct{ mock.Mock }

var _ repo.OrderItemRepository = (*OrderItemRepositoryMock)(nil)

func (m *OrderItemRepositoryMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepositoryMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepositoryMock) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	items, _ := args.Get(0).(map[int64][]model.OrderItem)
	return items, args.Error(1)
}

// =====================
// AuditLogRepository
// =====================

type AuditLogRepositoryMock struct{ mock.Mock }

var _ repo.AuditLogRepository = (*AuditLogRepositoryMock)(nil)

func (m *AuditLogRepositoryMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepositoryMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// TransactionManager
// =====================

// Repos is handed to fn by TxManagerMock. Nil fields are never reached in a passing test.
type Repos struct {
	OrdersRepo     *OrderRepositoryMock
	OrderItemsRepo *OrderItemRepositoryMock
	CartItemsRepo  *CartItemRepositoryMock
	InventoryRepo  *InventoryRepositoryMock
	ProductsRepo   *ProductRepositoryMock
	AuditLogsRepo  *AuditLogRepositoryMock
}

func NewRepos() *Repos {
	return &Repos{
		OrdersRepo:     new(OrderRepositoryMock),
		OrderItemsRepo: new(OrderItemRepositoryMock),
		CartItemsRepo:  new(CartItemRepositoryMock),
		InventoryRepo:  new(InventoryRepositoryMock),
		ProductsRepo:   new(ProductRepositoryMock),
		AuditLogsRepo:  new(AuditLogRepositoryMock),
	}
}

func (r *Repos) Orders() repo.OrderRepository         { return r.OrdersRepo }
func (r *Repos) OrderItems() repo.OrderItemRepository { return r.OrderItemsRepo }
func (r *Repos) CartItems() repo.CartItemRepository   { return r.CartItemsRepo }
func (r *Repos) Inventory() repo.InventoryRepository  { return r.InventoryRepo }
func (r *Repos) Products() repo.ProductRepository     { return r.ProductsRepo }
func (r *Repos) AuditLogs() repo.AuditLogRepository   { return r.AuditLogsRepo }

// TxManagerMock runs fn directly against Repos; Commits and Rollbacks count outcomes.
type TxManagerMock struct {
	Repos     *Repos
	Commits   int
	Rollbacks int
}

func NewTxManagerMock() *TxManagerMock {
	return &TxManagerMock{Repos: NewRepos()}
}

var _ repo.TransactionManager = (*TxManagerMock)(nil)

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := fn(m.Repos); err != nil {
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}
