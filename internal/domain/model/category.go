package model

import "time"

type ProductCategory struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Image        *string   `gorm:"type:varchar(500)" json:"image"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ProductCategory) TableName() string { return TableProductCategories }
