package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status *model.OrderStatus
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// FindByIDForUpdate locks the order row.
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	// ListByUserID is newest first.
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, adminNotes *string) error
}
