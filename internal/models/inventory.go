package models

import (
	"time"
)

// InventoryItem is a stocked product. On-hand quantity is never stored: it
// is always the sum of the item's stock movements.
type InventoryItem struct {
	BaseModel
	Name             string  `gorm:"size:200;not null" json:"name"`
	Description      string  `gorm:"type:text" json:"description"`
	UnitCost         float64 `gorm:"default:0" json:"unitCost"`
	UnitPrice        float64 `gorm:"default:0" json:"unitPrice"`
	ReorderThreshold int     `gorm:"default:0" json:"reorderThreshold"`

	Movements []StockMovement `gorm:"foreignKey:ItemID" json:"-"`
}

// StockMovement is one signed quantity change for an inventory item.
type StockMovement struct {
	BaseModel
	ItemID    string    `gorm:"size:36;index;not null" json:"itemId"`
	ChangeQty int       `gorm:"not null" json:"changeQty"`
	Reason    string    `gorm:"size:255" json:"reason"`
	MovedAt   time.Time `json:"movedAt"`

	Item InventoryItem `gorm:"foreignKey:ItemID" json:"-"`
}
