package repository

import "context"

// TxRepos exposes repositories bound to one transaction.
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	CartItems() CartItemRepository
	Inventory() InventoryRepository
	Products() ProductRepository
	AuditLogs() AuditLogRepository
}

// TransactionManager runs fn in a transaction; a returned error rolls it back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
