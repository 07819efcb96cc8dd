package services

import (
	"testing"

	"vetclinic-server/internal/models"
)

func TestOnHandIsLedgerSum(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)

	item := models.InventoryItem{Name: "Amoxicillin 250mg", ReorderThreshold: 5}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	onHand, err := svc.OnHand(item.ID)
	if err != nil {
		t.Fatalf("on hand: %v", err)
	}
	if onHand != 0 {
		t.Errorf("new item on hand = %d, want 0", onHand)
	}

	for _, change := range []int{20, -3, -7} {
		if _, err := svc.AdjustStock(item.ID, change, "test movement"); err != nil {
			t.Fatalf("adjust %d: %v", change, err)
		}
	}

	onHand, err = svc.OnHand(item.ID)
	if err != nil {
		t.Fatalf("on hand: %v", err)
	}
	if onHand != 10 {
		t.Errorf("on hand = %d, want 10", onHand)
	}
}

func TestAdjustStockUnknownItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)

	if _, err := svc.AdjustStock("no-such-id", 1, ""); err == nil {
		t.Error("expected error for unknown item")
	}
}

func TestBelowReorder(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)

	low := models.InventoryItem{Name: "Syringes 5ml", ReorderThreshold: 10}
	ok := models.InventoryItem{Name: "Gauze rolls", ReorderThreshold: 5}
	for _, item := range []*models.InventoryItem{&low, &ok} {
		if err := db.Create(item).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// Exactly at threshold counts as low; above does not.
	if _, err := svc.AdjustStock(low.ID, 10, "restock"); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if _, err := svc.AdjustStock(ok.ID, 6, "restock"); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	lowStock, err := svc.BelowReorder()
	if err != nil {
		t.Fatalf("below reorder: %v", err)
	}
	if len(lowStock) != 1 {
		t.Fatalf("low stock items = %d, want 1", len(lowStock))
	}
	if lowStock[0].Name != "Syringes 5ml" {
		t.Errorf("low stock item = %q, want Syringes 5ml", lowStock[0].Name)
	}
	if lowStock[0].OnHand != 10 {
		t.Errorf("low stock on hand = %d, want 10", lowStock[0].OnHand)
	}
}
