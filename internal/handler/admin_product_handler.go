package handler

import (
	"io"
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type productCreateRequest struct {
	CategoryID    int64           `json:"category_id" validate:"required,gt=0"`
	Title         string          `json:"title" validate:"required,max=255"`
	Description   *string         `json:"description"`
	Image         *string         `json:"image" validate:"omitempty,max=500"`
	BasePrice     decimal.Decimal `json:"base_price"`
	Options       model.Options   `json:"options"`
	StockQuantity int64           `json:"stock_quantity" validate:"gte=0"`
	IsActive      *bool           `json:"is_active"`
}

type productUpdateRequest struct {
	CategoryID    model.Optional[int64]           `json:"category_id"`
	Title         model.Optional[string]          `json:"title"`
	Description   model.Optional[string]          `json:"description"`
	Image         model.Optional[string]          `json:"image"`
	BasePrice     model.Optional[decimal.Decimal] `json:"base_price"`
	Options       model.Optional[model.Options]   `json:"options"`
	StockQuantity model.Optional[int64]           `json:"stock_quantity"`
	IsActive      model.Optional[bool]            `json:"is_active"`
}

// /products admin API
type AdminProductHandler struct {
	uc            *usecase.ProductUsecase
	maxImageBytes int64
}

func NewAdminProductHandler(uc *usecase.ProductUsecase, maxImageBytes int64) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, maxImageBytes: maxImageBytes}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	grp := e.Group("/products")
	grp.POST("", h.createProduct, g.Auth, g.Admin)
	grp.PUT("/:id", h.updateProduct, g.Auth, g.Admin)
	grp.DELETE("/:id", h.deleteProduct, g.Auth, g.Admin)
	grp.POST("/upload-image", h.uploadImage, g.Auth, g.Admin)
	grp.GET("/:id/adjustments", h.listAdjustments, g.Auth, g.Admin)
}

// listAdjustments is the stock edit history of one product.
func (h *AdminProductHandler) listAdjustments(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Adjustments(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	admin, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	var req productCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Create(c.Request().Context(), admin, usecase.ProductInput{
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Description:   req.Description,
		Image:         req.Image,
		BasePrice:     req.BasePrice,
		Options:       req.Options,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	admin, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req productUpdateRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}

	out, err := h.uc.Update(c.Request().Context(), admin, id, usecase.ProductUpdate{
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Description:   req.Description,
		Image:         req.Image,
		BasePrice:     req.BasePrice,
		Options:       req.Options,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
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

// uploadImage takes multipart product_id and file.
func (h *AdminProductHandler) uploadImage(c echo.Context) error {
	admin, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	productID, err := strconv.ParseInt(c.FormValue("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return writeError(c, usecase.Invalid("Invalid product_id"))
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, usecase.Invalid("file is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, usecase.Internal(err))
	}
	defer f.Close()

	// one byte over the limit is enough for the usecase to reject it
	data, err := io.ReadAll(io.LimitReader(f, h.maxImageBytes+1))
	if err != nil {
		return writeError(c, usecase.Internal(err))
	}

	out, err := h.uc.UploadImage(c.Request().Context(), admin, productID, data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
