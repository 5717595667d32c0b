package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Products    []Product `json:"-"`
}

type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	CategoryID  *uint          `json:"category_id"`
	Category    *Category      `gorm:"foreignKey:CategoryID" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	// Base price in whole rupees; slab pricing overrides this per quantity.
	BasePrice    int64          `gorm:"not null" json:"base_price"`
	AvailableQty int            `gorm:"default:0" json:"available_qty"`
	WeightLabel  string         `gorm:"size:50" json:"weight_label"` // e.g. "25 KG"
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	Slabs        []PriceSlab    `gorm:"foreignKey:ProductID" json:"slabs"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// PriceSlab is one quantity-range tier of a product's price table.
// MaxQty 0 means the tier is unbounded above.
type PriceSlab struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	MinQty    int    `gorm:"not null" json:"min_qty"`
	MaxQty    int    `gorm:"default:0" json:"max_qty"`
	PerUnit   int64  `gorm:"not null" json:"per_unit"`
	Label     string `gorm:"size:100" json:"label"`
	Position  int    `gorm:"default:0" json:"position"` // stored order for resolution
}
