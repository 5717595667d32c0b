package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CouponPercentage = "percentage"
	CouponFixed      = "fixed"
)

// Coupon codes are stored uppercase; lookups normalize the same way.
type Coupon struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Code           string         `gorm:"size:50;unique;not null" json:"code"`
	DiscountType   string         `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue  int64          `gorm:"not null" json:"discount_value"`
	MinOrderAmount int64          `gorm:"default:0" json:"min_order_amount"`
	MaxDiscount    int64          `gorm:"default:0" json:"max_discount"` // 0 = no cap; percentage type only
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	ExpiresAt      time.Time      `json:"expires_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
