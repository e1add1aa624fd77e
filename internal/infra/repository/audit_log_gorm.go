package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

var _ repo.AuditLogRepository = (*AuditLogGormRepository)(nil)

func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = r.db.NowFunc()
	}
	return translate(r.db.WithContext(ctx).Create(&log).Error)
}

func (r *AuditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.ActorUserID != nil {
		q = q.Where("actor_user_id = ?", *filter.ActorUserID)
	}
	if filter.Action != nil {
		q = q.Where("action = ?", *filter.Action)
	}
	if filter.ResourceType != nil {
		q = q.Where("resource_type = ?", *filter.ResourceType)
	}
	if filter.ResourceID != nil {
		q = q.Where("resource_id = ?", *filter.ResourceID)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var logs []model.AuditLog
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
