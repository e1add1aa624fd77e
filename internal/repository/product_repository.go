package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ProductListFilter struct {
	CategoryID *int64
	// nil skips the active filter
	IsActive *bool
}

type ProductRepository interface {
	// List is newest first and does not load inline image bytes.
	List(ctx context.Context, f ProductListFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	// LockByIDs takes row locks in ascending id order. Call inside a transaction.
	LockByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	SetImage(ctx context.Context, id int64, data []byte, mimeType string) error
	// LoadImage returns the inline bytes and MIME type.
	LoadImage(ctx context.Context, id int64) ([]byte, string, error)
	// Delete returns ErrReferenced when order items still point at the product.
	Delete(ctx context.Context, id int64) error
}
