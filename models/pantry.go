package models

import (
	"time"
)

// LowStockThreshold marks pantry items that should be reordered.
const LowStockThreshold = 20

// PantryItem is a stock entity keyed by name+category. StockQuantity must
// never go negative; transfers clamp to the available quantity.
type PantryItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name     string `gorm:"size:191;index:idx_pantry_name_category" json:"name"`
	Category string `gorm:"size:128;index:idx_pantry_name_category" json:"category"`

	Price       float64 `json:"price"`
	CostPerUnit float64 `gorm:"column:cost_per_unit" json:"costPerUnit,omitempty"`
	Description string  `gorm:"type:text" json:"description,omitempty"`

	StockQuantity int    `gorm:"column:stock_quantity;default:0" json:"stockQuantity"`
	MinStockLevel int    `gorm:"column:min_stock_level;default:5" json:"minStockLevel"`
	Unit          string `gorm:"size:32" json:"unit"`

	IsAvailable bool `gorm:"column:is_available;default:true" json:"isAvailable"`
}

// IsLowStock reports whether the item is at or below the reorder threshold.
func (p *PantryItem) IsLowStock() bool {
	return p.StockQuantity <= LowStockThreshold
}

// KitchenStoreItem mirrors pantry stock on the kitchen side, keyed by name.
type KitchenStoreItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name     string `gorm:"size:191;uniqueIndex" json:"name"`
	Category string `gorm:"size:128;default:Food" json:"category"`
	Quantity int    `gorm:"default:0" json:"quantity"`
	Unit     string `gorm:"size:32" json:"unit"`
}
