package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type categoryCreateRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Title        string  `json:"title" validate:"required,max=255"`
	Image        *string `json:"image" validate:"omitempty,max=500"`
	DisplayOrder int     `json:"display_order"`
}

type categoryUpdateRequest struct {
	Name         model.Optional[string] `json:"name"`
	Title        model.Optional[string] `json:"title"`
	Image        model.Optional[string] `json:"image"`
	DisplayOrder model.Optional[int]    `json:"display_order"`
}

type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	grp := e.Group("/products/categories")
	grp.GET("", h.list)
	grp.POST("", h.create, g.Auth, g.Admin)
	grp.PUT("/:id", h.update, g.Auth, g.Admin)
	grp.DELETE("/:id", h.delete, g.Auth, g.Admin)
}

func (h *CategoryHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) create(c echo.Context) error {
	var req categoryCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CategoryInput{
		Name:         req.Name,
		Title:        req.Title,
		Image:        req.Image,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CategoryHandler) update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req categoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}

	out, err := h.uc.Update(c.Request().Context(), id, usecase.CategoryUpdate{
		Name:         req.Name,
		Title:        req.Title,
		Image:        req.Image,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) delete(c echo.Context) error {
	admin, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Delete(c.Request().Context(), admin, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
