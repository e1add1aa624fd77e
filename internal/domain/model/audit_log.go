package model

import "time"

type AuditAction string

const (
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionCreateProduct     AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct     AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct     AuditAction = "DELETE_PRODUCT"
	AuditActionUploadImage       AuditAction = "UPLOAD_PRODUCT_IMAGE"
	AuditActionDeleteCategory    AuditAction = "DELETE_CATEGORY"
)

type AuditResourceType string

const (
	AuditResourceProduct  AuditResourceType = "product"
	AuditResourceCategory AuditResourceType = "category"
	AuditResourceOrder    AuditResourceType = "order"
)

// AuditLog records who changed what, on which resource, from what to what.
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	BeforeJSON   string            `gorm:"type:text" json:"before_json"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}

func (AuditLog) TableName() string { return TableAuditLogs }
