package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart HTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addCartItemRequest struct {
	ProductID       int64         `json:"product_id" validate:"required,gt=0"`
	Quantity        *int64        `json:"quantity" validate:"omitempty,gt=0"`
	SelectedOptions model.Options `json:"selected_options"`
}

type updateCartItemRequest struct {
	Quantity        int64                         `json:"quantity" validate:"required,gt=0"`
	SelectedOptions model.Optional[model.Options] `json:"selected_options"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	grp := e.Group("/cart")
	grp.GET("", h.getCart, g.Auth)
	grp.DELETE("", h.clear, g.Auth)
	grp.POST("/items", h.addItem, g.Auth)
	grp.PUT("/items/:id", h.updateItem, g.Auth)
	grp.DELETE("/items/:id", h.removeItem, g.Auth)
}

func (h *CartHandler) getCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetCart(c.Request().Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	var req addCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	out, err := h.uc.AddItem(c.Request().Context(), user.ID, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  qty,
		Options:   req.SelectedOptions,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req updateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), user.ID, itemID, usecase.UpdateCartItemInput{
		Quantity: req.Quantity,
		Options:  req.SelectedOptions,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.RemoveItem(c.Request().Context(), user.ID, itemID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) clear(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Clear(c.Request().Context(), user.ID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
