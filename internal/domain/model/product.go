package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  int64   `gorm:"not null;index" json:"category_id"`
	Title       string  `gorm:"type:varchar(255);not null;index" json:"title"`
	Description *string `gorm:"type:text" json:"description"`

	// Image is an external URL. Inline bytes, when present, take precedence.
	Image         *string `gorm:"type:varchar(500)" json:"image"`
	ImageData     []byte  `json:"-"`
	ImageMimeType *string `gorm:"type:varchar(100)" json:"-"`

	BasePrice     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"base_price"`
	Options       Options         `gorm:"type:text" json:"options"`
	StockQuantity int64           `gorm:"not null;default:0;check:chk_products_stock,stock_quantity >= 0" json:"stock_quantity"`
	IsActive      bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return TableProducts }

// HasInlineImage reports whether image bytes are stored on the row.
// ImageMimeType is set together with ImageData, so list queries can omit the blob.
func (p Product) HasInlineImage() bool {
	return p.ImageMimeType != nil && *p.ImageMimeType != ""
}

// DisplayImage is the image URL clients should use.
func (p Product) DisplayImage() *string {
	if p.HasInlineImage() {
		u := ProductImagePath(p.ID)
		return &u
	}
	return p.Image
}

func ProductImagePath(productID int64) string {
	return fmt.Sprintf("/products/%d/image", productID)
}
