package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

var _ repo.CategoryRepository = (*CategoryGormRepository)(nil)

func (r *CategoryGormRepository) List(ctx context.Context) ([]model.ProductCategory, error) {
	var out []model.ProductCategory
	err := r.db.WithContext(ctx).
		Order("display_order ASC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.ProductCategory, error) {
	var c model.ProductCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return model.ProductCategory{}, translate(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.ProductCategory, error) {
	if len(ids) == 0 {
		return []model.ProductCategory{}, nil
	}
	var out []model.ProductCategory
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CategoryGormRepository) Create(ctx context.Context, c *model.ProductCategory) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CategoryGormRepository) Update(ctx context.Context, c *model.ProductCategory) error {
	res := r.db.WithContext(ctx).
		Model(c).
		Select("name", "title", "image", "display_order", "updated_at").
		Updates(c)
	return affected(res)
}

func (r *CategoryGormRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.ProductCategory{}, id))
}
