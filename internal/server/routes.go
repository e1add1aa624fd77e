package server

import (
	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
)

// Handlers is every route group the API serves.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Categories   *handler.CategoryHandler
	Products     *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Cart         *handler.CartHandler
	Orders       *handler.OrderHandler
	AdminOrders  *handler.AdminOrderHandler
	AuditLogs    *handler.AuditLogHandler
}

// RegisterRoutes mounts every handler on e.
func RegisterRoutes(e *echo.Echo, h Handlers, g handler.Guards) {
	h.Health.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, g)
	h.Categories.RegisterRoutes(e, g)
	h.Products.RegisterRoutes(e, g)
	h.AdminProduct.RegisterRoutes(e, g)
	h.Cart.RegisterRoutes(e, g)
	h.Orders.RegisterRoutes(e, g)
	h.AdminOrders.RegisterRoutes(e, g)
	h.AuditLogs.RegisterRoutes(e, g)
}
