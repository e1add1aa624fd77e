package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

var _ repo.ProductRepository = (*ProductGormRepository)(nil)

func (r *ProductGormRepository) List(ctx context.Context, f repo.ProductListFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Omit("image_data")

	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	var products []model.Product
	if err := q.Order("created_at DESC").Order("id DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Omit("image_data").Where("id = ?", id).First(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Omit("image_data").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) LockByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Omit("image_data").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit("image_data").Create(p).Error)
}

func (r *ProductGormRepository) Update(ctx context.Context, p *model.Product) error {
	res := r.db.WithContext(ctx).
		Model(p).
		Select("category_id", "title", "description", "image", "base_price",
			"options", "stock_quantity", "is_active", "updated_at").
		Updates(p)
	return affected(res)
}

func (r *ProductGormRepository) SetImage(ctx context.Context, id int64, data []byte, mimeType string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"image_data":      data,
			"image_mime_type": mimeType,
		})
	return affected(res)
}

func (r *ProductGormRepository) LoadImage(ctx context.Context, id int64) ([]byte, string, error) {
	var row struct {
		ImageData     []byte
		ImageMimeType *string
	}
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("image_data", "image_mime_type").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, "", translate(err)
	}
	if len(row.ImageData) == 0 || row.ImageMimeType == nil {
		return nil, "", repo.ErrNotFound
	}
	return row.ImageData, *row.ImageMimeType, nil
}

func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Product{}, id))
}
