package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	// ListByUserID is ordered oldest first (created_at, id).
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	// LockByUserID is ListByUserID with the rows held FOR UPDATE until the tx ends.
	LockByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	ListByUserAndProduct(ctx context.Context, userID int64, productID int64) ([]model.CartItem, error)
	FindByIDForUser(ctx context.Context, itemID int64, userID int64) (model.CartItem, error)
	Create(ctx context.Context, item *model.CartItem) error
	AddQuantity(ctx context.Context, itemID int64, delta int64) error
	Update(ctx context.Context, item *model.CartItem) error
	// DeleteForUser is a no-op when nothing matches.
	DeleteForUser(ctx context.Context, itemID int64, userID int64) error
	DeleteByUserID(ctx context.Context, userID int64) error
	// DeleteByIDs returns ErrNotFound unless every id was deleted.
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) error
}
