package models_test

import (
	"testing"

	"github.com/hooperp/franchise_backend/models"
)

func TestUpdateItemMinimumLevelClamps(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(1)
	item := createTestItem(t, ctx, testItemSpec{sku: "MIN-1", cost: 10, sell: 20, currentStock: 100, reorderLevel: 60})

	// Floor is reorder level + 5.
	got, err := models.UpdateItemMinimumLevel(ctx, item.ID, 10)
	if err != nil {
		t.Fatalf("UpdateItemMinimumLevel low: %v", err)
	}
	if got.MinInventoryLevel != 65 {
		t.Fatalf("expected clamp to 65, got %d", got.MinInventoryLevel)
	}

	got, err = models.UpdateItemMinimumLevel(ctx, item.ID, 500)
	if err != nil {
		t.Fatalf("UpdateItemMinimumLevel high: %v", err)
	}
	if got.MinInventoryLevel != 300 {
		t.Fatalf("expected cap at 300, got %d", got.MinInventoryLevel)
	}

	got, err = models.UpdateItemMinimumLevel(ctx, item.ID, 120)
	if err != nil {
		t.Fatalf("UpdateItemMinimumLevel mid: %v", err)
	}
	if got.MinInventoryLevel != 120 {
		t.Fatalf("expected 120 kept, got %d", got.MinInventoryLevel)
	}

	// Unknown ids are silent no-ops.
	got, err = models.UpdateItemMinimumLevel(ctx, 99999, 100)
	if err != nil || got != nil {
		t.Fatalf("expected silent no-op, got %v err=%v", got, err)
	}
}

func TestAvailableClampsAtZero(t *testing.T) {
	item := models.MerchItem{CurrentStock: 10, AllocatedStock: 8, PackagingStock: 6, IncomingStock: 3}
	if got := item.Available(); got != 0 {
		t.Fatalf("oversold item must report 0 available, got %d", got)
	}
	if got := item.Projected(); got != 3 {
		t.Fatalf("projected adds incoming to available, got %d", got)
	}
}
