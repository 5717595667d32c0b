package models

import (
	"time"
)

// Order type
const (
	OrderTypeInstant  = "instant"
	OrderTypePreorder = "preorder"
)

// Payment status — money collected so far, tracked independently of
// fulfillment stage.
const (
	PaymentPending   = "pending"
	PaymentPartial   = "partial"
	PaymentCompleted = "completed"
)

// Order status — fulfillment stage.
const (
	StatusPending    = "pending"
	StatusPrepaid    = "prepaid"
	StatusFullyPaid  = "fully_paid"
	StatusDispatched = "dispatched"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderNo string `gorm:"size:50;unique;not null" json:"order_no"`
	UserID  *uint  `json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Amounts in whole rupees. TotalAmount = Subtotal - Discount; the
	// transportation amount is tracked separately and added for display.
	Subtotal    int64  `gorm:"not null" json:"subtotal"`
	Discount    int64  `gorm:"default:0" json:"discount"`
	CouponCode  string `gorm:"size:50" json:"coupon_code"`
	TotalAmount int64  `gorm:"not null" json:"total_amount"`

	Address  string   `gorm:"type:text;not null" json:"address"`
	Pincode  string   `gorm:"size:10;not null" json:"pincode"`
	Landmark string   `gorm:"size:200" json:"landmark"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`

	OrderType     string `gorm:"size:20;not null" json:"order_type"`
	PaymentStatus string `gorm:"size:20;default:'pending'" json:"payment_status"`
	OrderStatus   string `gorm:"size:20;default:'pending'" json:"order_status"`

	PaymentHash string `gorm:"size:100;index" json:"payment_hash"`
	UPILink     string `gorm:"size:1000" json:"upi_link"`

	ScheduledDelivery *time.Time `json:"scheduled_delivery,omitempty"`
	Transportation    bool       `gorm:"default:false" json:"transportation"`
	TransportAmount   int64      `gorm:"default:0" json:"transport_amount"`
	GSTNumber         string     `gorm:"size:20" json:"gst_number"`
	CancelReason      string     `gorm:"type:text" json:"cancel_reason"`

	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem freezes the price and slab label at order time; catalog
// edits never rewrite history.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice int64   `gorm:"not null" json:"unit_price"`
	SlabLabel string  `gorm:"size:100" json:"slab_label"`
}

// Open reports whether the order still needs payment attention: not in
// a terminal state and not paid in full. Used by the one-open-order
// guard at checkout.
func (o *Order) Open() bool {
	switch o.OrderStatus {
	case StatusPending, StatusPrepaid:
		return o.PaymentStatus != PaymentCompleted
	}
	return false
}
