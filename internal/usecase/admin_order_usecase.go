package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminOrderQuery struct {
	Status string
	Page   int
	Limit  int
}

type AdminOrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

type UpdateOrderStatusInput struct {
	Status string
	Note   *string
}

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	items  repo.OrderItemRepository
	users  repo.UserRepository
	clock  Clock
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	users repo.UserRepository,
	clock Clock,
) *AdminOrderUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AdminOrderUsecase{tx: tx, orders: orders, items: items, users: users, clock: clock}
}

func (u *AdminOrderUsecase) List(ctx context.Context, q AdminOrderQuery) (AdminOrderListOutput, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	filter := repo.AdminOrderListFilter{Page: q.Page, Limit: q.Limit}
	if q.Status != "" {
		status, err := model.ParseOrderStatus(q.Status)
		if err != nil {
			return AdminOrderListOutput{}, Invalid("Invalid status")
		}
		filter.Status = &status
	}

	orders, total, err := u.orders.ListAdmin(ctx, filter)
	if err != nil {
		return AdminOrderListOutput{}, Internal(err)
	}
	out, err := attachItems(ctx, u.items, orders)
	if err != nil {
		return AdminOrderListOutput{}, err
	}
	if err := u.attachUsers(ctx, out); err != nil {
		return AdminOrderListOutput{}, err
	}

	return AdminOrderListOutput{Orders: out, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NotFound(msgOrderNotFound)
	}
	if err != nil {
		return OrderOutput{}, Internal(err)
	}

	items, err := u.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, Internal(err)
	}
	out := []OrderOutput{{Order: o, Items: nonNilItems(items)}}
	if err := u.attachUsers(ctx, out); err != nil {
		return OrderOutput{}, err
	}
	return out[0], nil
}

// UpdateStatus sets any status; there is no transition graph. A note is appended to admin_notes.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, admin *model.User, orderID int64, in UpdateOrderStatusInput) (OrderOutput, error) {
	status, err := model.ParseOrderStatus(in.Status)
	if err != nil {
		return OrderOutput{}, Invalid("Invalid status")
	}

	var out OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound(msgOrderNotFound)
		}
		if err != nil {
			return err
		}

		before := struct {
			Status     model.OrderStatus `json:"status"`
			AdminNotes *string           `json:"admin_notes"`
		}{o.Status, o.AdminNotes}

		o.Status = status
		if in.Note != nil {
			o.AppendAdminNote(u.clock.Now(), admin.Nickname, *in.Note)
		}
		if err := r.Orders().UpdateStatus(ctx, o.ID, o.Status, o.AdminNotes); err != nil {
			return err
		}

		after := before
		after.Status, after.AdminNotes = o.Status, o.AdminNotes
		if err := writeAudit(ctx, r.AuditLogs(), auditEntry{
			actor:        admin,
			action:       model.AuditActionUpdateOrderStatus,
			resourceType: model.AuditResourceOrder,
			resourceID:   o.ID,
			before:       before,
			after:        after,
		}); err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}
		out = OrderOutput{Order: o, Items: nonNilItems(items)}
		return nil
	})
	if err != nil {
		return OrderOutput{}, wrap(err)
	}

	list := []OrderOutput{out}
	if err := u.attachUsers(ctx, list); err != nil {
		return OrderOutput{}, err
	}
	return list[0], nil
}

func (u *AdminOrderUsecase) attachUsers(ctx context.Context, orders []OrderOutput) error {
	ids := make([]int64, 0, len(orders))
	seen := make(map[int64]bool, len(orders))
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}

	users, err := u.users.FindByIDs(ctx, ids)
	if err != nil {
		return Internal(err)
	}
	byID := make(map[int64]OrderUser, len(users))
	for _, usr := range users {
		byID[usr.ID] = OrderUser{ID: usr.ID, Email: usr.Email, Nickname: usr.Nickname}
	}
	for i := range orders {
		if usr, ok := byID[orders[i].UserID]; ok {
			orders[i].User = &usr
		}
	}
	return nil
}
