package models_test

import (
	"testing"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/models"
)

func TestReorderTriggerOpensSinglePurchaseOrder(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(1)
	item := createTestItem(t, ctx, testItemSpec{
		sku: "TRIG-1", cost: 10, sell: 20,
		currentStock: 20, reorderLevel: 15, minLevel: 25,
	})

	// Trigger level is max(reorder, minimum) = 25; projected 20 <= 25.
	// Quantity = max(2*25, 0 demand, shortfall 5 + 25, floor 25) = 50.
	if err := models.RunReorderCheck(ctx, item.ID); err != nil {
		t.Fatalf("RunReorderCheck: %v", err)
	}

	var orders []models.ProcurementOrder
	if err := config.GetDB().Where("item_id = ?", item.ID).Find(&orders).Error; err != nil {
		t.Fatalf("list POs: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 PO, got %d", len(orders))
	}
	po := orders[0]
	if po.QtyOrdered != 50 {
		t.Fatalf("expected qty 50, got %d", po.QtyOrdered)
	}
	if po.Status != models.ProcurementStatusOpen || po.ExpectedReceipt != 2 {
		t.Fatalf("unexpected PO %+v", po)
	}

	if got := fetchItem(t, ctx, item.ID); got.IncomingStock != 50 {
		t.Fatalf("expected incoming 50, got %d", got.IncomingStock)
	}

	// An Open PO suppresses retriggering even though projected now exceeds
	// the trigger only because of the optimistic incoming bump.
	if err := models.RunReorderCheck(ctx, item.ID); err != nil {
		t.Fatalf("RunReorderCheck again: %v", err)
	}
	var count int64
	if err := config.GetDB().Model(&models.ProcurementOrder{}).
		Where("item_id = ?", item.ID).Count(&count).Error; err != nil {
		t.Fatalf("count POs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected still 1 PO, got %d", count)
	}
}

func TestProcurementCloseAndReopenMoveStock(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(1)
	item := createTestItem(t, ctx, testItemSpec{
		sku: "CLOSE-1", cost: 10, sell: 20,
		currentStock: 20, reorderLevel: 15, minLevel: 25,
	})
	if err := models.RunReorderCheck(ctx, item.ID); err != nil {
		t.Fatalf("RunReorderCheck: %v", err)
	}
	var po models.ProcurementOrder
	if err := config.GetDB().Where("item_id = ?", item.ID).First(&po).Error; err != nil {
		t.Fatalf("fetch PO: %v", err)
	}

	if _, err := models.UpdateProcurementStatus(ctx, po.ID, models.ProcurementStatusClosed); err != nil {
		t.Fatalf("close PO: %v", err)
	}
	got := fetchItem(t, ctx, item.ID)
	if got.IncomingStock != 0 || got.CurrentStock != 70 {
		t.Fatalf("after close expected incoming=0 current=70, got incoming=%d current=%d",
			got.IncomingStock, got.CurrentStock)
	}

	if _, err := models.UpdateProcurementStatus(ctx, po.ID, models.ProcurementStatusOpen); err != nil {
		t.Fatalf("reopen PO: %v", err)
	}
	got = fetchItem(t, ctx, item.ID)
	if got.IncomingStock != 50 || got.CurrentStock != 20 {
		t.Fatalf("after reopen expected incoming=50 current=20, got incoming=%d current=%d",
			got.IncomingStock, got.CurrentStock)
	}
}

func TestProcurementRequestLifecycle(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(2)
	item := createTestItem(t, ctx, testItemSpec{sku: "REQ-1", cost: 10, sell: 20, currentStock: 40})

	requests, err := models.CreateProcurementRequests(ctx, []models.NewProcurementRequest{
		{ItemId: item.ID, Quantity: 30, MinimumGap: 10},
		{ItemId: item.ID, Quantity: 0},
		{ItemId: item.ID, Quantity: 8, BackorderUnits: 12},
	})
	if err != nil {
		t.Fatalf("CreateProcurementRequests: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests (zero-qty skipped), got %d", len(requests))
	}
	if requests[0].Note != "Raises stock to minimum target (covers 10 unit gap)." {
		t.Fatalf("unexpected note %q", requests[0].Note)
	}
	if requests[1].Note != "Leaves 4 backordered units." {
		t.Fatalf("unexpected note %q", requests[1].Note)
	}

	po, err := models.ApproveProcurementRequest(ctx, requests[0].ID)
	if err != nil {
		t.Fatalf("ApproveProcurementRequest: %v", err)
	}
	if po == nil || po.QtyOrdered != 30 || po.Status != models.ProcurementStatusOpen {
		t.Fatalf("unexpected PO %+v", po)
	}
	if got := fetchItem(t, ctx, item.ID); got.IncomingStock != 30 {
		t.Fatalf("expected incoming 30, got %d", got.IncomingStock)
	}
	var count int64
	if err := config.GetDB().Model(&models.ProcurementRequest{}).
		Where("id = ?", requests[0].ID).Count(&count).Error; err != nil {
		t.Fatalf("count request: %v", err)
	}
	if count != 0 {
		t.Fatal("approved request should be deleted")
	}

	if err := models.DenyProcurementRequest(ctx, requests[1].ID); err != nil {
		t.Fatalf("DenyProcurementRequest: %v", err)
	}
	if err := config.GetDB().Model(&models.ProcurementRequest{}).Count(&count).Error; err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if count != 0 {
		t.Fatalf("denied request should be deleted, %d left", count)
	}
	// Denial has no stock effect.
	if got := fetchItem(t, ctx, item.ID); got.IncomingStock != 30 {
		t.Fatalf("deny must not touch stock, incoming=%d", got.IncomingStock)
	}

	// Unknown ids are silent no-ops.
	if po, err := models.ApproveProcurementRequest(ctx, 99999); err != nil || po != nil {
		t.Fatalf("expected silent no-op, got po=%v err=%v", po, err)
	}
}
