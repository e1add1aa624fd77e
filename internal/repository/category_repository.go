package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CategoryRepository interface {
	// List is ordered by display_order, then id.
	List(ctx context.Context) ([]model.ProductCategory, error)
	FindByID(ctx context.Context, id int64) (model.ProductCategory, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.ProductCategory, error)
	Create(ctx context.Context, c *model.ProductCategory) error
	Update(ctx context.Context, c *model.ProductCategory) error
	// Delete cascades to products; ErrReferenced when one of them was ordered.
	Delete(ctx context.Context, id int64) error
}
