package usecase

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const msgCartItemNotFound = "Cart item not found"

type CartItemOutput struct {
	ID              int64         `json:"id"`
	ProductID       int64         `json:"product_id"`
	Quantity        int64         `json:"quantity"`
	SelectedOptions model.Options `json:"selected_options"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Product         ProductOutput `json:"product"`
}

type CartOutput struct {
	Items      []CartItemOutput `json:"items"`
	TotalItems int              `json:"total_items"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
	Options   model.Options
}

type UpdateCartItemInput struct {
	Quantity int64
	// Options replaces the line's options only when present; null clears them.
	Options model.Optional[model.Options]
}

type CartUsecase struct {
	items      repo.CartItemRepository
	products   repo.ProductRepository
	categories repo.CategoryRepository
}

func NewCartUsecase(items repo.CartItemRepository, products repo.ProductRepository, categories repo.CategoryRepository) *CartUsecase {
	return &CartUsecase{items: items, products: products, categories: categories}
}

// GetCart lists lines newest first. Lines whose product is gone are left out.
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	lines, err := u.items.ListByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, Internal(err)
	}

	productIDs := make([]int64, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	products, err := u.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return CartOutput{}, Internal(err)
	}
	categories, err := categoriesFor(ctx, u.categories, products)
	if err != nil {
		return CartOutput{}, err
	}
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := CartOutput{Items: []CartItemOutput{}, Subtotal: decimal.Zero}
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		out.Items = append(out.Items, toCartItemOutput(l, toProductOutput(p, categories[p.CategoryID])))
		out.Subtotal = out.Subtotal.Add(p.BasePrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	out.TotalItems = len(out.Items)
	out.Subtotal = out.Subtotal.Round(2)
	return out, nil
}

// AddItem merges into an existing line when product and options are equal.
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (CartItemOutput, error) {
	if in.Quantity <= 0 {
		return CartItemOutput{}, Invalid("Quantity must be greater than 0")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemOutput{}, NotFound(msgProductNotFound)
	}
	if err != nil {
		return CartItemOutput{}, Internal(err)
	}
	if !p.IsActive {
		return CartItemOutput{}, Invalid("Product is not available for purchase")
	}

	existing, err := u.items.ListByUserAndProduct(ctx, userID, in.ProductID)
	if err != nil {
		return CartItemOutput{}, Internal(err)
	}

	var line model.CartItem
	merged := false
	for _, e := range existing {
		if e.SelectedOptions.Equal(in.Options) {
			if err := u.items.AddQuantity(ctx, e.ID, in.Quantity); err != nil {
				return CartItemOutput{}, Internal(err)
			}
			if line, err = u.items.FindByIDForUser(ctx, e.ID, userID); err != nil {
				return CartItemOutput{}, Internal(err)
			}
			merged = true
			break
		}
	}
	if !merged {
		line = model.CartItem{
			UserID:          userID,
			ProductID:       in.ProductID,
			Quantity:        in.Quantity,
			SelectedOptions: in.Options,
		}
		if err := u.items.Create(ctx, &line); err != nil {
			return CartItemOutput{}, Internal(err)
		}
	}

	return u.itemOutput(ctx, line, p)
}

func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, itemID int64, in UpdateCartItemInput) (CartItemOutput, error) {
	if in.Quantity <= 0 {
		return CartItemOutput{}, Invalid("Quantity must be greater than 0")
	}

	line, err := u.items.FindByIDForUser(ctx, itemID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemOutput{}, NotFound(msgCartItemNotFound)
	}
	if err != nil {
		return CartItemOutput{}, Internal(err)
	}

	line.Quantity = in.Quantity
	if in.Options.Set {
		line.SelectedOptions = in.Options.Value
	}
	if err := u.items.Update(ctx, &line); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartItemOutput{}, NotFound(msgCartItemNotFound)
		}
		return CartItemOutput{}, Internal(err)
	}

	p, err := u.products.FindByID(ctx, line.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemOutput{}, NotFound(msgProductNotFound)
	}
	if err != nil {
		return CartItemOutput{}, Internal(err)
	}
	return u.itemOutput(ctx, line, p)
}

// RemoveItem succeeds whether or not the line exists or belongs to the caller.
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, itemID int64) error {
	if err := u.items.DeleteForUser(ctx, itemID, userID); err != nil {
		return Internal(err)
	}
	return nil
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	if err := u.items.DeleteByUserID(ctx, userID); err != nil {
		return Internal(err)
	}
	return nil
}

func (u *CartUsecase) itemOutput(ctx context.Context, line model.CartItem, p model.Product) (CartItemOutput, error) {
	categories, err := categoriesFor(ctx, u.categories, []model.Product{p})
	if err != nil {
		return CartItemOutput{}, err
	}
	return toCartItemOutput(line, toProductOutput(p, categories[p.CategoryID])), nil
}

func toCartItemOutput(l model.CartItem, p ProductOutput) CartItemOutput {
	return CartItemOutput{
		ID:              l.ID,
		ProductID:       l.ProductID,
		Quantity:        l.Quantity,
		SelectedOptions: l.SelectedOptions,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		Product:         p,
	}
}
