package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

var _ repo.InventoryRepository = (*InventoryGormRepository)(nil)

// only decrements when enough stock remains
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return translate(r.db.WithContext(ctx).Create(&adj).Error)
}

func (r *InventoryGormRepository) ListAdjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error) {
	var out []model.InventoryAdjustment
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
