package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

var _ repo.OrderItemRepository = (*OrderItemGormRepository)(nil)

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return translate(r.db.WithContext(ctx).Create(&items).Error)
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	out := make(map[int64][]model.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("order_id ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, nil
}
