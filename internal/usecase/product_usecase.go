package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"
)

const (
	msgProductNotFound   = "Product not found"
	msgProductReferenced = "Product is referenced by existing orders"
)

// allowed upload types, matched on sniffed content rather than the client's header
var imageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ProductOutput is a product as clients see it: display image resolved and category embedded.
type ProductOutput struct {
	ID            int64                  `json:"id"`
	CategoryID    int64                  `json:"category_id"`
	Title         string                 `json:"title"`
	Description   *string                `json:"description"`
	Image         *string                `json:"image"`
	BasePrice     decimal.Decimal        `json:"base_price"`
	Options       model.Options          `json:"options"`
	StockQuantity int64                  `json:"stock_quantity"`
	IsActive      bool                   `json:"is_active"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Category      *model.ProductCategory `json:"category,omitempty"`
}

func toProductOutput(p model.Product, c *model.ProductCategory) ProductOutput {
	return ProductOutput{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		Title:         p.Title,
		Description:   p.Description,
		Image:         p.DisplayImage(),
		BasePrice:     p.BasePrice,
		Options:       p.Options,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Category:      c,
	}
}

type ProductQuery struct {
	CategoryID *int64
	// IsActive defaults to true when nil.
	IsActive *bool
	// IncludeInactive drops the active filter. The handler only honours it for admins.
	IncludeInactive bool
}

type ProductInput struct {
	CategoryID    int64
	Title         string
	Description   *string
	Image         *string
	BasePrice     decimal.Decimal
	Options       model.Options
	StockQuantity int64
	IsActive      *bool
}

type ProductUpdate struct {
	CategoryID    model.Optional[int64]
	Title         model.Optional[string]
	Description   model.Optional[string]
	Image         model.Optional[string]
	BasePrice     model.Optional[decimal.Decimal]
	Options       model.Optional[model.Options]
	StockQuantity model.Optional[int64]
	IsActive      model.Optional[bool]
}

// ProductImage is what GET /products/{id}/image serves: inline bytes or a redirect.
type ProductImage struct {
	Data        []byte
	MimeType    string
	RedirectURL string
}

type ProductUsecase struct {
	products      repo.ProductRepository
	categories    repo.CategoryRepository
	auditLogs     repo.AuditLogRepository
	tx            repo.TransactionManager
	maxImageBytes int64
}

func NewProductUsecase(
	products repo.ProductRepository,
	categories repo.CategoryRepository,
	auditLogs repo.AuditLogRepository,
	tx repo.TransactionManager,
	maxImageBytes int64,
) *ProductUsecase {
	return &ProductUsecase{
		products:      products,
		categories:    categories,
		auditLogs:     auditLogs,
		tx:            tx,
		maxImageBytes: maxImageBytes,
	}
}

func (u *ProductUsecase) List(ctx context.Context, q ProductQuery) ([]ProductOutput, error) {
	filter := repo.ProductListFilter{CategoryID: q.CategoryID}
	if !q.IncludeInactive {
		active := true
		if q.IsActive != nil {
			active = *q.IsActive
		}
		filter.IsActive = &active
	}

	products, err := u.products.List(ctx, filter)
	if err != nil {
		return nil, Internal(err)
	}
	return u.withCategories(ctx, products)
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (ProductOutput, error) {
	p, err := u.findProduct(ctx, u.products, id)
	if err != nil {
		return ProductOutput{}, err
	}
	out, err := u.withCategories(ctx, []model.Product{p})
	if err != nil {
		return ProductOutput{}, err
	}
	return out[0], nil
}

func (u *ProductUsecase) Create(ctx context.Context, actor *model.User, in ProductInput) (ProductOutput, error) {
	category, err := u.findCategory(ctx, in.CategoryID)
	if err != nil {
		return ProductOutput{}, err
	}

	p := model.Product{
		CategoryID:    in.CategoryID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Image:         in.Image,
		BasePrice:     in.BasePrice.Round(2),
		Options:       in.Options,
		StockQuantity: in.StockQuantity,
		IsActive:      true,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if err := validateProduct(p); err != nil {
		return ProductOutput{}, err
	}

	if err := u.products.Create(ctx, &p); err != nil {
		return ProductOutput{}, Internal(err)
	}

	out := toProductOutput(p, &category)
	if err := writeAudit(ctx, u.auditLogs, auditEntry{
		actor:        actor,
		action:       model.AuditActionCreateProduct,
		resourceType: model.AuditResourceProduct,
		resourceID:   p.ID,
		after:        out,
	}); err != nil {
		return ProductOutput{}, Internal(err)
	}
	return out, nil
}

// Update applies only the fields present in in. A stock change is recorded as an adjustment.
func (u *ProductUsecase) Update(ctx context.Context, actor *model.User, id int64, in ProductUpdate) (ProductOutput, error) {
	var (
		updated  model.Product
		category model.ProductCategory
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// locked so a concurrent checkout's decrement is seen and kept
		before, err := lockProduct(ctx, r.Products(), id)
		if err != nil {
			return err
		}
		p := before

		if in.CategoryID.Set {
			if !in.CategoryID.Present() {
				return Invalid("category_id cannot be null")
			}
			p.CategoryID = in.CategoryID.Value
		}
		if category, err = u.findCategory(ctx, p.CategoryID); err != nil {
			return err
		}

		if in.Title.Set {
			p.Title = strings.TrimSpace(in.Title.Value)
		}
		applyOptionalString(&p.Description, in.Description)
		applyOptionalString(&p.Image, in.Image)
		if in.BasePrice.Set {
			if !in.BasePrice.Present() {
				return Invalid("base_price cannot be null")
			}
			p.BasePrice = in.BasePrice.Value.Round(2)
		}
		if in.Options.Set {
			p.Options = in.Options.Value
		}
		if in.StockQuantity.Set {
			if !in.StockQuantity.Present() {
				return Invalid("stock_quantity cannot be null")
			}
			p.StockQuantity = in.StockQuantity.Value
		}
		if in.IsActive.Present() {
			p.IsActive = in.IsActive.Value
		}

		if err := validateProduct(p); err != nil {
			return err
		}
		if err := r.Products().Update(ctx, &p); err != nil {
			return err
		}

		if delta := p.StockQuantity - before.StockQuantity; delta != 0 {
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID:   p.ID,
				AdminUserID: actorID(actor),
				Delta:       delta,
				Reason:      "admin product update",
			}); err != nil {
				return err
			}
		}

		updated = p
		return writeAudit(ctx, r.AuditLogs(), auditEntry{
			actor:        actor,
			action:       model.AuditActionUpdateProduct,
			resourceType: model.AuditResourceProduct,
			resourceID:   p.ID,
			before:       toProductOutput(before, nil),
			after:        toProductOutput(p, nil),
		})
	})
	if err != nil {
		return ProductOutput{}, wrap(err)
	}
	return toProductOutput(updated, &category), nil
}

func (u *ProductUsecase) Delete(ctx context.Context, actor *model.User, id int64) error {
	p, err := u.findProduct(ctx, u.products, id)
	if err != nil {
		return err
	}

	if err := u.products.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return NotFound(msgProductNotFound)
		case errors.Is(err, repo.ErrReferenced):
			return Invalid(msgProductReferenced)
		}
		return Internal(err)
	}

	return wrap(writeAudit(ctx, u.auditLogs, auditEntry{
		actor:        actor,
		action:       model.AuditActionDeleteProduct,
		resourceType: model.AuditResourceProduct,
		resourceID:   id,
		before:       toProductOutput(p, nil),
	}))
}

// UploadImage stores data inline on the product after checking its size and sniffed type.
func (u *ProductUsecase) UploadImage(ctx context.Context, actor *model.User, productID int64, data []byte) (ProductOutput, error) {
	if len(data) == 0 {
		return ProductOutput{}, Invalid("Empty file")
	}
	if int64(len(data)) > u.maxImageBytes {
		return ProductOutput{}, Invalid(fmt.Sprintf("File too large. Maximum size is %d bytes", u.maxImageBytes))
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), imageMimeTypes...) {
		return ProductOutput{}, Invalid(fmt.Sprintf("Invalid file type %s. Allowed: %s", mtype.String(), strings.Join(imageMimeTypes, ", ")))
	}

	p, err := u.findProduct(ctx, u.products, productID)
	if err != nil {
		return ProductOutput{}, err
	}

	if err := u.products.SetImage(ctx, productID, data, mtype.String()); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductOutput{}, NotFound(msgProductNotFound)
		}
		return ProductOutput{}, Internal(err)
	}
	mime := mtype.String()
	p.ImageMimeType = &mime

	out, err := u.withCategories(ctx, []model.Product{p})
	if err != nil {
		return ProductOutput{}, err
	}
	if err := writeAudit(ctx, u.auditLogs, auditEntry{
		actor:        actor,
		action:       model.AuditActionUploadImage,
		resourceType: model.AuditResourceProduct,
		resourceID:   productID,
		after:        map[string]any{"mime_type": mime, "size": len(data)},
	}); err != nil {
		return ProductOutput{}, Internal(err)
	}
	return out[0], nil
}

// Adjustments lists the admin stock edits of one product, newest first.
func (u *ProductUsecase) Adjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error) {
	if _, err := u.findProduct(ctx, u.products, productID); err != nil {
		return nil, err
	}

	var out []model.InventoryAdjustment
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		out, err = r.Inventory().ListAdjustments(ctx, productID)
		return err
	})
	if err != nil {
		return nil, wrap(err)
	}
	if out == nil {
		out = []model.InventoryAdjustment{}
	}
	return out, nil
}

// Image prefers inline bytes, then the stored URL.
func (u *ProductUsecase) Image(ctx context.Context, productID int64) (ProductImage, error) {
	p, err := u.findProduct(ctx, u.products, productID)
	if err != nil {
		return ProductImage{}, err
	}

	if p.HasInlineImage() {
		data, mime, err := u.products.LoadImage(ctx, productID)
		if err == nil {
			return ProductImage{Data: data, MimeType: mime}, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return ProductImage{}, Internal(err)
		}
	}
	if p.Image != nil && *p.Image != "" {
		return ProductImage{RedirectURL: *p.Image}, nil
	}
	return ProductImage{}, NotFound("Image not found")
}

func (u *ProductUsecase) findProduct(ctx context.Context, products repo.ProductRepository, id int64) (model.Product, error) {
	p, err := products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NotFound(msgProductNotFound)
	}
	if err != nil {
		return model.Product{}, Internal(err)
	}
	return p, nil
}

func lockProduct(ctx context.Context, products repo.ProductRepository, id int64) (model.Product, error) {
	locked, err := products.LockByIDs(ctx, []int64{id})
	if err != nil {
		return model.Product{}, Internal(err)
	}
	if len(locked) == 0 {
		return model.Product{}, NotFound(msgProductNotFound)
	}
	return locked[0], nil
}

func (u *ProductUsecase) findCategory(ctx context.Context, id int64) (model.ProductCategory, error) {
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductCategory{}, NotFound(msgCategoryNotFound)
	}
	if err != nil {
		return model.ProductCategory{}, Internal(err)
	}
	return c, nil
}

func (u *ProductUsecase) withCategories(ctx context.Context, products []model.Product) ([]ProductOutput, error) {
	byID, err := categoriesFor(ctx, u.categories, products)
	if err != nil {
		return nil, err
	}
	out := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		out = append(out, toProductOutput(p, byID[p.CategoryID]))
	}
	return out, nil
}

func categoriesFor(ctx context.Context, categories repo.CategoryRepository, products []model.Product) (map[int64]*model.ProductCategory, error) {
	ids := make([]int64, 0, len(products))
	seen := make(map[int64]bool, len(products))
	for _, p := range products {
		if !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}

	list, err := categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, Internal(err)
	}
	byID := make(map[int64]*model.ProductCategory, len(list))
	for i := range list {
		byID[list[i].ID] = &list[i]
	}
	return byID, nil
}

func validateProduct(p model.Product) error {
	if p.Title == "" {
		return Invalid("Title is required")
	}
	if !p.BasePrice.IsPositive() {
		return Invalid("base_price must be greater than 0")
	}
	if p.StockQuantity < 0 {
		return Invalid("stock_quantity must be 0 or more")
	}
	return nil
}

func actorID(actor *model.User) int64 {
	if actor == nil {
		return 0
	}
	return actor.ID
}
