package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "Pending"
	OrderStatusConfirmed       OrderStatus = "Confirmed"
	OrderStatusPaymentPending  OrderStatus = "Payment Pending"
	OrderStatusPaymentReceived OrderStatus = "Payment Received"
	OrderStatusDelivered       OrderStatus = "Delivered"
	OrderStatusCanceled        OrderStatus = "Canceled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPaymentPending,
	OrderStatusPaymentReceived,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func (s OrderStatus) Valid() bool {
	for _, v := range orderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseOrderStatus matches one of the six statuses ignoring case and surrounding spaces.
// Any status may follow any other; there is no transition graph.
func ParseOrderStatus(s string) (OrderStatus, error) {
	trimmed := strings.TrimSpace(s)
	for _, v := range orderStatuses {
		if strings.EqualFold(trimmed, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type Order struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64           `gorm:"not null;index" json:"user_id"`
	OrderDate     time.Time       `gorm:"not null;index" json:"order_date"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Shipping      Address         `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"tax"`
	ShippingCost  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"shipping_cost"`
	Total         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	CustomerNotes *string         `gorm:"type:text" json:"customer_notes"`
	AdminNotes    *string         `gorm:"type:text" json:"admin_notes"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return TableOrders }

// AppendAdminNote adds "[time] nickname: note" on its own line, keeping earlier notes.
func (o *Order) AppendAdminNote(at time.Time, nickname, note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	line := fmt.Sprintf("[%s] %s: %s", at.UTC().Format("2006-01-02 15:04 UTC"), nickname, note)
	if o.AdminNotes == nil || *o.AdminNotes == "" {
		o.AdminNotes = &line
		return
	}
	joined := *o.AdminNotes + "\n" + line
	o.AdminNotes = &joined
}
