package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

var _ repo.UserRepository = (*UserGormRepository)(nil)

func (r *UserGormRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserGormRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserGormRepository) FindByNickname(ctx context.Context, nickname string) (*model.User, error) {
	return r.first(ctx, "nickname = ?", nickname)
}

func (r *UserGormRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.first(ctx, "email = ? OR nickname = ?", login, login)
}

func (r *UserGormRepository) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).
		Model(user).
		Select("email", "nickname", "password_hash", "role",
			"street_address", "city", "postal_code", "country", "payment_method", "updated_at").
		Updates(user)
	return affected(res)
}

func (r *UserGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserGormRepository) first(ctx context.Context, query string, args ...any) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
