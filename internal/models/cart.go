package models

import (
	"time"
)

// CartItem is the server-side cart line for an authenticated user.
// UnitPrice and SlabLabel are a denormalized copy of the slab selected
// at add time; checkout re-resolves against the live catalog.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_cart_user_product,unique;not null" json:"user_id"`
	ProductID uint      `gorm:"index:idx_cart_user_product,unique;not null" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	SlabLabel string    `gorm:"size:100" json:"slab_label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
