package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type UserRepository interface {
	// Create returns ErrDuplicate when email or nickname is taken.
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByNickname(ctx context.Context, nickname string) (*model.User, error)
	// FindByLogin matches either email or nickname.
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	// FindByIDs is used for admin order attribution.
	FindByIDs(ctx context.Context, ids []int64) ([]model.User, error)
}
