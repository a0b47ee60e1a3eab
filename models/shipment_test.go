package models_test

import (
	"testing"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/models"
	"github.com/shopspring/decimal"
)

func TestShipmentDeliveredCascadesToOrder(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(2)
	store := createTestStore(t, ctx)
	item := createTestItem(t, ctx, testItemSpec{sku: "SHP-CAS", cost: 10, sell: 20, currentStock: 50})

	order, _, err := models.CreateSalesOrder(ctx, &models.NewSalesOrder{
		StoreId: store.ID,
		Lines:   []models.NewSalesOrderLine{{ItemId: item.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(20)}},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	if _, err := models.UpdateSalesOrderWorkflow(ctx, order.ID, models.StageShipped, nil); err != nil {
		t.Fatalf("ship: %v", err)
	}

	var shipment models.Shipment
	if err := config.GetDB().Where("sales_order_id = ?", order.ID).First(&shipment).Error; err != nil {
		t.Fatalf("fetch shipment: %v", err)
	}

	if _, err := models.UpdateShipmentStatus(ctx, shipment.ID, models.ShipmentStatusOutForDelivery, nil); err != nil {
		t.Fatalf("out for delivery: %v", err)
	}
	got, err := models.GetSalesOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("fetch order: %v", err)
	}
	if got.WorkflowStage != models.StageShipped {
		t.Fatalf("out-for-delivery must not touch the order, got %s", got.WorkflowStage)
	}

	actual := 3
	updated, err := models.UpdateShipmentStatus(ctx, shipment.ID, models.ShipmentStatusDelivered, &actual)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if updated.ActualDelivery == nil || *updated.ActualDelivery != 3 {
		t.Fatalf("expected actual delivery 3, got %v", updated.ActualDelivery)
	}

	got, err = models.GetSalesOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("fetch order after deliver: %v", err)
	}
	if got.WorkflowStage != models.StageDelivered {
		t.Fatalf("expected order Delivered, got %s", got.WorkflowStage)
	}
	if got.Status != models.OrderStatusInventoryReserved {
		t.Fatalf("delivery promotes status, got %s", got.Status)
	}

	// Bogus statuses and unknown ids are silent no-ops.
	if s, err := models.UpdateShipmentStatus(ctx, shipment.ID, "Teleported", nil); err != nil || s != nil {
		t.Fatalf("expected silent no-op, got %v err=%v", s, err)
	}
	if s, err := models.UpdateShipmentStatus(ctx, 99999, models.ShipmentStatusDelivered, nil); err != nil || s != nil {
		t.Fatalf("expected silent no-op, got %v err=%v", s, err)
	}
}
