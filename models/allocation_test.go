package models_test

import (
	"testing"

	"github.com/hooperp/franchise_backend/models"
	"github.com/shopspring/decimal"
)

// The recompute is a pure function of order state: running it twice must
// change nothing, and cancelled orders must release their claim.
func TestRecalculateAllocationsIsIdempotent(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(1)
	store := createTestStore(t, ctx)
	item := createTestItem(t, ctx, testItemSpec{sku: "ALLOC-1", cost: 10, sell: 20, currentStock: 100})

	order, _, err := models.CreateSalesOrder(ctx, &models.NewSalesOrder{
		StoreId: store.ID,
		Lines:   []models.NewSalesOrderLine{{ItemId: item.ID, Quantity: 15, UnitPrice: decimal.NewFromInt(20)}},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}

	if err := models.RecalculateAllocations(ctx); err != nil {
		t.Fatalf("RecalculateAllocations: %v", err)
	}
	first := fetchItem(t, ctx, item.ID)
	if err := models.RecalculateAllocations(ctx); err != nil {
		t.Fatalf("RecalculateAllocations twice: %v", err)
	}
	second := fetchItem(t, ctx, item.ID)

	if first.AllocatedStock != 15 || second.AllocatedStock != 15 {
		t.Fatalf("expected allocated 15 both runs, got %d then %d",
			first.AllocatedStock, second.AllocatedStock)
	}
	if first.PackagingStock != second.PackagingStock {
		t.Fatalf("packaging drifted: %d then %d", first.PackagingStock, second.PackagingStock)
	}

	// Cancellation releases the allocation on the next recompute.
	if _, err := models.UpdateSalesOrderStatus(ctx, order.ID, models.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	got := fetchItem(t, ctx, item.ID)
	if got.AllocatedStock != 0 {
		t.Fatalf("cancelled order must release allocation, got %d", got.AllocatedStock)
	}
}
