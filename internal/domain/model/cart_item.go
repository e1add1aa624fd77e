package model

import "time"

// CartItem is one cart line. Lines for the same product coexist when their options differ.
type CartItem struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64     `gorm:"not null;index" json:"user_id"`
	ProductID       int64     `gorm:"not null;index" json:"product_id"`
	Quantity        int64     `gorm:"not null;check:chk_cart_items_quantity,quantity > 0" json:"quantity"`
	SelectedOptions Options   `gorm:"type:text" json:"selected_options"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (CartItem) TableName() string { return TableCartItems }
