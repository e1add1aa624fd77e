package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products public API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	grp := e.Group("/products")
	grp.GET("", h.list, g.Optional)
	grp.GET("/:id", h.detail)
	grp.GET("/:id/image", h.image)
}

func (h *ProductHandler) list(c echo.Context) error {
	var q usecase.ProductQuery

	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return writeError(c, usecase.Invalid("Invalid category_id"))
		}
		q.CategoryID = &id
	}

	active, err := queryBool(c, "is_active")
	if err != nil {
		return writeError(c, err)
	}
	q.IsActive = active

	include, err := queryBool(c, "include_inactive")
	if err != nil {
		return writeError(c, err)
	}
	// only admins may see inactive products regardless of is_active
	if include != nil && *include {
		if user, ok := middleware.CurrentUser(c); ok && user.Role == model.RoleAdmin {
			q.IncludeInactive = true
		}
	}

	out, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// image serves inline bytes, or redirects to the stored URL.
func (h *ProductHandler) image(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	img, err := h.uc.Image(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if img.RedirectURL != "" {
		return c.Redirect(http.StatusFound, img.RedirectURL)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Blob(http.StatusOK, img.MimeType, img.Data)
}
