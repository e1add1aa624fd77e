package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const msgOrderNotFound = "Order not found"

// checkout failure reasons, used as a metric attribute
const (
	FailureEmptyCart      = "empty_cart"
	FailureProductMissing = "product_missing"
	FailureUnavailable    = "product_unavailable"
	FailureOutOfStock     = "out_of_stock"
	FailureInternal       = "internal"
)

// CheckoutRecorder receives checkout outcomes.
type CheckoutRecorder interface {
	OrderPlaced(ctx context.Context, total decimal.Decimal, items int)
	CheckoutFailed(ctx context.Context, reason string)
}

type noopRecorder struct{}

func (noopRecorder) OrderPlaced(context.Context, decimal.Decimal, int) {}
func (noopRecorder) CheckoutFailed(context.Context, string)            {}

type OrderUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type OrderOutput struct {
	model.Order
	Items []model.OrderItem `json:"items"`
	// User is only filled for admin views.
	User *OrderUser `json:"user,omitempty"`
}

type CheckoutInput struct {
	CustomerNotes *string
}

type OrderUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	items    repo.OrderItemRepository
	clock    Clock
	recorder CheckoutRecorder
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	clock Clock,
	recorder CheckoutRecorder,
) *OrderUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &OrderUsecase{tx: tx, orders: orders, items: items, clock: clock, recorder: recorder}
}

type checkoutError struct {
	reason string
	err    error
}

func (e *checkoutError) Error() string { return e.err.Error() }
func (e *checkoutError) Unwrap() error { return e.err }

func rejectCheckout(reason string, err error) error {
	return &checkoutError{reason: reason, err: err}
}

// Checkout turns the caller's cart into a Pending order in one transaction.
// The caller's cart lines are locked first, so a second checkout of the same cart
// waits and then finds it empty. Product rows are locked in ascending id order and
// stock is decremented with a compare-and-set, so of two checkouts racing for the
// last unit exactly one wins.
func (u *OrderUsecase) Checkout(ctx context.Context, user *model.User, in CheckoutInput) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.CartItems().LockByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return rejectCheckout(FailureEmptyCart, Invalid("Cart is empty"))
		}

		products, err := r.Products().LockByIDs(ctx, distinctProductIDs(lines))
		if err != nil {
			return err
		}
		byID := make(map[int64]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		subtotal := decimal.Zero
		remaining := make(map[int64]int64, len(products))
		orderItems := make([]model.OrderItem, 0, len(lines))
		lineIDs := make([]int64, 0, len(lines))

		for _, l := range lines {
			p, ok := byID[l.ProductID]
			if !ok {
				return rejectCheckout(FailureProductMissing, Invalid(fmt.Sprintf("Product %d not found", l.ProductID)))
			}
			if !p.IsActive {
				return rejectCheckout(FailureUnavailable, Invalid(fmt.Sprintf("Product '%s' is no longer available", p.Title)))
			}

			left, seen := remaining[p.ID]
			if !seen {
				left = p.StockQuantity
			}
			if left < l.Quantity {
				return rejectCheckout(FailureOutOfStock, Invalid(fmt.Sprintf("Not enough stock for '%s'. Available: %d", p.Title, left)))
			}
			remaining[p.ID] = left - l.Quantity

			subtotal = subtotal.Add(p.BasePrice.Mul(decimal.NewFromInt(l.Quantity)))
			orderItems = append(orderItems, model.OrderItem{
				ProductID:       p.ID,
				ProductTitle:    p.Title,
				ProductImage:    p.DisplayImage(),
				Quantity:        l.Quantity,
				Price:           p.BasePrice,
				SelectedOptions: l.SelectedOptions,
			})
			lineIDs = append(lineIDs, l.ID)
		}

		for _, l := range lines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// only reachable if the row lock was bypassed
				p := byID[l.ProductID]
				return rejectCheckout(FailureOutOfStock, Invalid(fmt.Sprintf("Not enough stock for '%s'. Available: %d", p.Title, remaining[p.ID])))
			}
		}

		subtotal = subtotal.Round(2)
		order := model.Order{
			UserID:        user.ID,
			OrderDate:     u.clock.Now(),
			Status:        model.OrderStatusPending,
			Shipping:      user.Address.Snapshot(),
			Subtotal:      subtotal,
			Tax:           decimal.Zero,
			ShippingCost:  decimal.Zero,
			Total:         subtotal,
			CustomerNotes: in.CustomerNotes,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			return err
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return err
		}
		if err := r.CartItems().DeleteByIDs(ctx, user.ID, lineIDs); err != nil {
			return err
		}

		out = OrderOutput{Order: order, Items: orderItems}
		return nil
	})
	if err != nil {
		var ce *checkoutError
		if errors.As(err, &ce) {
			u.recorder.CheckoutFailed(ctx, ce.reason)
			return OrderOutput{}, ce.err
		}
		u.recorder.CheckoutFailed(ctx, FailureInternal)
		return OrderOutput{}, wrap(err)
	}

	u.recorder.OrderPlaced(ctx, out.Total, len(out.Items))
	return out, nil
}

// ListMyOrders is newest first.
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	return attachItems(ctx, u.items, orders)
}

// GetMyOrder hides other users' orders behind NotFound.
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NotFound(msgOrderNotFound)
	}
	if err != nil {
		return OrderOutput{}, Internal(err)
	}
	if o.UserID != userID {
		return OrderOutput{}, NotFound(msgOrderNotFound)
	}

	items, err := u.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, Internal(err)
	}
	return OrderOutput{Order: o, Items: nonNilItems(items)}, nil
}

func attachItems(ctx context.Context, itemsRepo repo.OrderItemRepository, orders []model.Order) ([]OrderOutput, error) {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	grouped, err := itemsRepo.ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, Internal(err)
	}

	out := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderOutput{Order: o, Items: nonNilItems(grouped[o.ID])})
	}
	return out, nil
}

func distinctProductIDs(lines []model.CartItem) []int64 {
	seen := make(map[int64]bool, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func nonNilItems(items []model.OrderItem) []model.OrderItem {
	if items == nil {
		return []model.OrderItem{}
	}
	return items
}
