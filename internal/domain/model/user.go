package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// ParseRole accepts the two known roles, case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type User struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Nickname      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"nickname"`
	PasswordHash  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role          Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	Address       Address   `gorm:"embedded" json:"address"`
	PaymentMethod *string   `gorm:"type:varchar(50)" json:"payment_method"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return TableUsers }
