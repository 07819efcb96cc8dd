package services

import (
	"time"

	"gorm.io/gorm"

	"vetclinic-server/internal/models"
)

// ItemStock pairs an inventory item with its computed on-hand quantity.
type ItemStock struct {
	models.InventoryItem
	OnHand int `json:"onHand"`
}

// InventoryService owns stock items and their movement ledger.
type InventoryService struct {
	db *gorm.DB
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// OnHand sums the movement ledger for one item.
func (s *InventoryService) OnHand(itemID string) (int, error) {
	var onHand int
	err := s.db.Model(&models.StockMovement{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(change_qty), 0)").
		Scan(&onHand).Error
	return onHand, err
}

// ListWithStock returns every item with its on-hand quantity.
func (s *InventoryService) ListWithStock() ([]ItemStock, error) {
	var items []models.InventoryItem
	if err := s.db.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}

	stocks := make([]ItemStock, 0, len(items))
	for _, item := range items {
		onHand, err := s.OnHand(item.ID)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, ItemStock{InventoryItem: item, OnHand: onHand})
	}
	return stocks, nil
}

// BelowReorder returns the items whose on-hand quantity is at or below
// their reorder threshold.
func (s *InventoryService) BelowReorder() ([]ItemStock, error) {
	all, err := s.ListWithStock()
	if err != nil {
		return nil, err
	}

	var low []ItemStock
	for _, stock := range all {
		if stock.OnHand <= stock.ReorderThreshold {
			low = append(low, stock)
		}
	}
	return low, nil
}

// AdjustStock appends a signed movement to the item's ledger.
func (s *InventoryService) AdjustStock(itemID string, changeQty int, reason string) (*models.StockMovement, error) {
	if err := s.db.First(&models.InventoryItem{}, "id = ?", itemID).Error; err != nil {
		return nil, err
	}

	movement := models.StockMovement{
		ItemID:    itemID,
		ChangeQty: changeQty,
		Reason:    reason,
		MovedAt:   time.Now(),
	}
	if err := s.db.Create(&movement).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}
