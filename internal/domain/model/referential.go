package model

const (
	TableUsers                = "Users"
	TableProductCategories    = "ProductCategories"
	TableProducts             = "Products"
	TableCartItems            = "CartItems"
	TableOrders               = "Orders"
	TableOrderItems           = "OrderItems"
	TableAuditLogs            = "AuditLogs"
	TableInventoryAdjustments = "InventoryAdjustments"
)

type DeleteAction string

const (
	DeleteCascade  DeleteAction = "CASCADE"
	DeleteRestrict DeleteAction = "RESTRICT"
)

// Reference is one foreign key and what happens to the child when the parent row is deleted.
type Reference struct {
	Name        string
	ChildTable  string
	Column      string
	ParentTable string
	OnDelete    DeleteAction
}

// ReferentialPolicies is the complete set of foreign keys. The migrator creates exactly these.
var ReferentialPolicies = []Reference{
	{Name: "fk_cart_items_user", ChildTable: TableCartItems, Column: "user_id", ParentTable: TableUsers, OnDelete: DeleteCascade},
	{Name: "fk_cart_items_product", ChildTable: TableCartItems, Column: "product_id", ParentTable: TableProducts, OnDelete: DeleteCascade},
	{Name: "fk_products_category", ChildTable: TableProducts, Column: "category_id", ParentTable: TableProductCategories, OnDelete: DeleteCascade},
	{Name: "fk_orders_user", ChildTable: TableOrders, Column: "user_id", ParentTable: TableUsers, OnDelete: DeleteRestrict},
	{Name: "fk_order_items_order", ChildTable: TableOrderItems, Column: "order_id", ParentTable: TableOrders, OnDelete: DeleteCascade},
	{Name: "fk_order_items_product", ChildTable: TableOrderItems, Column: "product_id", ParentTable: TableProducts, OnDelete: DeleteRestrict},
}

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&ProductCategory{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&AuditLog{},
		&InventoryAdjustment{},
	}
}
