package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

func (h *AuditLogHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.GET("/admin/audit-logs", h.list, g.Auth, g.Admin)
}

// list filters by actor_user_id, action, resource_type, resource_id and an RFC3339 from/to range.
func (h *AuditLogHandler) list(c echo.Context) error {
	var f repo.AuditLogFilter

	for name, dst := range map[string]**int64{
		"actor_user_id": &f.ActorUserID,
		"resource_id":   &f.ResourceID,
	} {
		if v := c.QueryParam(name); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return writeError(c, usecase.Invalid("Invalid "+name))
			}
			*dst = &id
		}
	}
	if v := c.QueryParam("action"); v != "" {
		action := model.AuditAction(v)
		f.Action = &action
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	for name, dst := range map[string]**time.Time{
		"from": &f.CreatedFrom,
		"to":   &f.CreatedTo,
	} {
		if v := c.QueryParam(name); v != "" {
			tm, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return writeError(c, usecase.Invalid("Invalid "+name))
			}
			*dst = &tm
		}
	}

	var err error
	if f.Limit, err = queryInt(c, "limit", 50); err != nil {
		return writeError(c, err)
	}
	if f.Offset, err = queryInt(c, "offset", 0); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
