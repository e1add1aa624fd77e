package usecase

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const msgCategoryNotFound = "Category not found"

type CategoryInput struct {
	Name         string
	Title        string
	Image        *string
	DisplayOrder int
}

type CategoryUpdate struct {
	Name         model.Optional[string]
	Title        model.Optional[string]
	Image        model.Optional[string]
	DisplayOrder model.Optional[int]
}

type CategoryUsecase struct {
	categories repo.CategoryRepository
	auditLogs  repo.AuditLogRepository
}

func NewCategoryUsecase(categories repo.CategoryRepository, auditLogs repo.AuditLogRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, auditLogs: auditLogs}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.ProductCategory, error) {
	list, err := u.categories.List(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	if list == nil {
		list = []model.ProductCategory{}
	}
	return list, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (model.ProductCategory, error) {
	c := model.ProductCategory{
		Name:         strings.TrimSpace(in.Name),
		Title:        strings.TrimSpace(in.Title),
		Image:        in.Image,
		DisplayOrder: in.DisplayOrder,
	}
	if c.Name == "" || c.Title == "" {
		return model.ProductCategory{}, Invalid("Name and title are required")
	}

	if err := u.categories.Create(ctx, &c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.ProductCategory{}, Invalid("Category name already exists")
		}
		return model.ProductCategory{}, Internal(err)
	}
	return c, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryUpdate) (model.ProductCategory, error) {
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductCategory{}, NotFound(msgCategoryNotFound)
	}
	if err != nil {
		return model.ProductCategory{}, Internal(err)
	}

	if in.Name.Set {
		if !in.Name.Present() || strings.TrimSpace(in.Name.Value) == "" {
			return model.ProductCategory{}, Invalid("Name cannot be empty")
		}
		c.Name = strings.TrimSpace(in.Name.Value)
	}
	if in.Title.Set {
		if !in.Title.Present() || strings.TrimSpace(in.Title.Value) == "" {
			return model.ProductCategory{}, Invalid("Title cannot be empty")
		}
		c.Title = strings.TrimSpace(in.Title.Value)
	}
	applyOptionalString(&c.Image, in.Image)
	if in.DisplayOrder.Present() {
		c.DisplayOrder = in.DisplayOrder.Value
	}

	if err := u.categories.Update(ctx, &c); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return model.ProductCategory{}, Invalid("Category name already exists")
		case errors.Is(err, repo.ErrNotFound):
			return model.ProductCategory{}, NotFound(msgCategoryNotFound)
		}
		return model.ProductCategory{}, Internal(err)
	}
	return c, nil
}

// Delete removes the category and, through the cascade, its products.
func (u *CategoryUsecase) Delete(ctx context.Context, actor *model.User, id int64) error {
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound(msgCategoryNotFound)
	}
	if err != nil {
		return Internal(err)
	}

	if err := u.categories.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return NotFound(msgCategoryNotFound)
		case errors.Is(err, repo.ErrReferenced):
			return Invalid("Product is referenced by existing orders")
		}
		return Internal(err)
	}

	return wrap(writeAudit(ctx, u.auditLogs, auditEntry{
		actor:        actor,
		action:       model.AuditActionDeleteCategory,
		resourceType: model.AuditResourceCategory,
		resourceID:   id,
		before:       c,
	}))
}

func applyOptionalString(dst **string, opt model.Optional[string]) {
	switch {
	case !opt.Set:
	case opt.Null:
		*dst = nil
	default:
		v := opt.Value
		*dst = &v
	}
}
