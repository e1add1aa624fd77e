package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// List is newest first.
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
