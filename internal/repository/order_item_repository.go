package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	// ListByOrderIDs groups items by order id.
	ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error)
}
