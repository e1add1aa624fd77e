package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type checkoutRequest struct {
	CustomerNotes *string `json:"customer_notes" validate:"omitempty,max=2000"`
}

type checkoutResponse struct {
	Message string              `json:"message"`
	Order   usecase.OrderOutput `json:"order"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	grp := e.Group("/orders")
	grp.POST("/checkout", h.checkout, g.Auth)
	grp.GET("", h.list, g.Auth)
	grp.GET("/:id", h.get, g.Auth)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	// the body is optional
	var req checkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	order, err := h.uc.Checkout(c.Request().Context(), user, usecase.CheckoutInput{CustomerNotes: req.CustomerNotes})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, checkoutResponse{Message: "Order placed successfully!", Order: order})
}

func (h *OrderHandler) list(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetMyOrder(c.Request().Context(), user.ID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
