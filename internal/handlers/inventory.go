package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/config"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/notifier"
	"vetclinic-server/internal/services"
	"vetclinic-server/internal/utils"
)

// InventoryHandler handles the stock screen's requests. Quantities are never
// edited directly; every change goes through the movement ledger.
type InventoryHandler struct {
	DB        *gorm.DB
	Inventory *services.InventoryService
	Notifier  *notifier.Notifier
	Cfg       *config.Config
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(db *gorm.DB, inventory *services.InventoryService, n *notifier.Notifier, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{DB: db, Inventory: inventory, Notifier: n, Cfg: cfg}
}

// InventoryItemRequest represents the request body for creating or editing a
// stock item.
type InventoryItemRequest struct {
	Name             string  `json:"name" binding:"required"`
	Description      string  `json:"description"`
	UnitCost         float64 `json:"unitCost" binding:"omitempty,min=0"`
	UnitPrice        float64 `json:"unitPrice" binding:"omitempty,min=0"`
	ReorderThreshold int     `json:"reorderThreshold" binding:"omitempty,min=0"`
}

// ListItems returns every stock item with its computed on-hand quantity.
func (h *InventoryHandler) ListItems(c *gin.Context) {
	stocks, err := h.Inventory.ListWithStock()
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch inventory: "+err.Error())
		return
	}
	utils.Success(c, "Inventory fetched", stocks)
}

// GetItem returns one stock item with its on-hand quantity and movements.
func (h *InventoryHandler) GetItem(c *gin.Context) {
	var item models.InventoryItem
	if err := h.DB.Preload("Movements").First(&item, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Inventory item not found")
		return
	}

	onHand, err := h.Inventory.OnHand(item.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to compute stock: "+err.Error())
		return
	}
	utils.Success(c, "Item fetched", services.ItemStock{InventoryItem: item, OnHand: onHand})
}

// CreateItem registers a new stock item with zero on-hand quantity.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req InventoryItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	item := models.InventoryItem{
		Name:             req.Name,
		Description:      req.Description,
		UnitCost:         req.UnitCost,
		UnitPrice:        req.UnitPrice,
		ReorderThreshold: req.ReorderThreshold,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		utils.InternalServerError(c, "Failed to create item: "+err.Error())
		return
	}
	utils.Created(c, "Item created", item)
}

// UpdateItem edits a stock item's descriptive fields.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var req InventoryItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var item models.InventoryItem
	if err := h.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Inventory item not found")
		return
	}

	item.Name = req.Name
	item.Description = req.Description
	item.UnitCost = req.UnitCost
	item.UnitPrice = req.UnitPrice
	item.ReorderThreshold = req.ReorderThreshold

	if err := h.DB.Save(&item).Error; err != nil {
		utils.InternalServerError(c, "Failed to update item: "+err.Error())
		return
	}
	utils.Success(c, "Item updated", item)
}

// DeleteItem removes a stock item and its movement ledger.
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.StockMovement{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.InventoryItem{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Inventory item not found")
		} else {
			utils.InternalServerError(c, "Failed to delete item: "+err.Error())
		}
		return
	}
	utils.Success(c, "Item deleted", nil)
}

// AdjustStockRequest represents the request body for a signed stock movement.
type AdjustStockRequest struct {
	ChangeQty int    `json:"changeQty" binding:"required"`
	Reason    string `json:"reason"`
}

// AdjustStock appends a movement to the item's ledger. If the item lands at
// or below its reorder threshold, a low stock alert is emailed to the
// clinic's own address.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	itemID := c.Param("id")
	movement, err := h.Inventory.AdjustStock(itemID, req.ChangeQty, req.Reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Inventory item not found")
		} else {
			utils.InternalServerError(c, "Failed to adjust stock: "+err.Error())
		}
		return
	}

	if low, err := h.Inventory.BelowReorder(); err == nil && len(low) > 0 {
		// Failures are logged inside the notifier, never surfaced here.
		_ = h.Notifier.SendLowStockAlert(h.Cfg.SMTP.Email, low)
	}

	onHand, err := h.Inventory.OnHand(itemID)
	if err != nil {
		utils.InternalServerError(c, "Failed to compute stock: "+err.Error())
		return
	}
	utils.Created(c, "Stock adjusted", gin.H{"movement": movement, "onHand": onHand})
}

// ListMovements returns an item's movement ledger, newest first.
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var movements []models.StockMovement
	if err := h.DB.Where("item_id = ?", c.Param("id")).
		Order("moved_at desc").Find(&movements).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch movements: "+err.Error())
		return
	}
	utils.Success(c, "Movements fetched", movements)
}

// LowStock returns the items at or below their reorder threshold.
func (h *InventoryHandler) LowStock(c *gin.Context) {
	low, err := h.Inventory.BelowReorder()
	if err != nil {
		utils.InternalServerError(c, "Failed to compute low stock: "+err.Error())
		return
	}
	utils.Success(c, "Low stock fetched", low)
}

// ExportLowStockCSV streams the reorder report as CSV.
func (h *InventoryHandler) ExportLowStockCSV(c *gin.Context) {
	low, err := h.Inventory.BelowReorder()
	if err != nil {
		utils.InternalServerError(c, "Failed to compute low stock: "+err.Error())
		return
	}

	headers := []string{"Name", "On Hand", "Reorder Threshold", "Unit Cost"}
	rows := make([][]string, 0, len(low))
	for _, stock := range low {
		rows = append(rows, []string{
			stock.Name,
			strconv.Itoa(stock.OnHand),
			strconv.Itoa(stock.ReorderThreshold),
			fmt.Sprintf("%.2f", stock.UnitCost),
		})
	}
	utils.SendCSV(c, "low_stock.csv", headers, rows)
}
