package usecase

import (
	"context"
	"encoding/json"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type auditEntry struct {
	actor        *model.User
	action       model.AuditAction
	resourceType model.AuditResourceType
	resourceID   int64
	before       any
	after        any
}

func writeAudit(ctx context.Context, logs repo.AuditLogRepository, e auditEntry) error {
	return logs.Create(ctx, model.AuditLog{
		ActorUserID:  actorID(e.actor),
		Action:       e.action,
		ResourceType: e.resourceType,
		ResourceID:   e.resourceID,
		BeforeJSON:   auditJSON(e.before),
		AfterJSON:    auditJSON(e.after),
	})
}

func auditJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// AuditLogUsecase serves the admin audit trail.
type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

func (u *AuditLogUsecase) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedFrom.After(*filter.CreatedTo) {
		return nil, Invalid("from must be before to")
	}
	logs, err := u.logs.List(ctx, filter)
	if err != nil {
		return nil, Internal(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
