package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

var _ repo.OrderRepository = (*OrderGormRepository)(nil)

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error; err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	page := f.Page
	if page <= 0 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	// reused for count and page
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := q.
		Order("order_date DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, adminNotes *string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":      status,
			"admin_notes": adminNotes,
			"updated_at":  r.db.NowFunc(),
		})
	return affected(res)
}
