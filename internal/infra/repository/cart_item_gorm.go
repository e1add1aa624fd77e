package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

var _ repo.CartItemRepository = (*CartItemGormRepository)(nil)

func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemGormRepository) LockByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemGormRepository) ListByUserAndProduct(ctx context.Context, userID int64, productID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemGormRepository) FindByIDForUser(ctx context.Context, itemID int64, userID int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return model.CartItem{}, translate(err)
	}
	return item, nil
}

func (r *CartItemGormRepository) Create(ctx context.Context, item *model.CartItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

// adds in SQL so concurrent adds to the same line are not lost
func (r *CartItemGormRepository) AddQuantity(ctx context.Context, itemID int64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return affected(res)
}

func (r *CartItemGormRepository) Update(ctx context.Context, item *model.CartItem) error {
	res := r.db.WithContext(ctx).
		Model(item).
		Where("user_id = ?", item.UserID).
		Select("quantity", "selected_options", "updated_at").
		Updates(item)
	return affected(res)
}

func (r *CartItemGormRepository) DeleteForUser(ctx context.Context, itemID int64, userID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&model.CartItem{}).Error
}

func (r *CartItemGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

func (r *CartItemGormRepository) DeleteByIDs(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	// a line already gone means another tx consumed it
	if res.RowsAffected != int64(len(ids)) {
		return repo.ErrNotFound
	}
	return nil
}
