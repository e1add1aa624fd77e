package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type orderStatusUpdateRequest struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note" validate:"omitempty,max=1000"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	admin := e.Group("/orders/admin")
	admin.GET("/all", h.list, g.Auth, g.Admin)
	admin.GET("/:id", h.get, g.Auth, g.Admin)
	admin.PUT("/:id/status", h.updateStatus, g.Auth, g.Admin)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), usecase.AdminOrderQuery{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) get(c echo.Context) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Get(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	admin, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req orderStatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), admin, orderID, usecase.UpdateOrderStatusInput{
		Status: req.Status,
		Note:   req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
