package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is written once at checkout. Its product fields are snapshots.
type OrderItem struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64           `gorm:"not null;index" json:"order_id"`
	ProductID       int64           `gorm:"not null;index" json:"product_id"`
	ProductTitle    string          `gorm:"type:varchar(255);not null" json:"product_title"`
	ProductImage    *string         `gorm:"type:varchar(500)" json:"product_image"`
	Quantity        int64           `gorm:"not null" json:"quantity"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	SelectedOptions Options         `gorm:"type:text" json:"selected_options"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string { return TableOrderItems }
