package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type InventoryRepository interface {
	// DecreaseStockIfEnough is a compare-and-set; false means stock was short.
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
	CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error
	ListAdjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error)
}
