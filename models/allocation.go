package models

import (
	"context"

	"github.com/hooperp/franchise_backend/config"
	"gorm.io/gorm"
)

type itemQuantitySum struct {
	ItemId   int `gorm:"column:item_id"`
	Quantity int `gorm:"column:quantity"`
}

// recalcAllocations rewrites allocated_stock and packaging_stock for every
// item from current order state. Pure function of order/line rows: running
// it twice in a row changes nothing. Must run inside the transaction of
// any operation that touches an order's status or workflow stage.
func recalcAllocations(ctx context.Context, tx *gorm.DB) error {

	allocatedSql := `
SELECT sol.item_id AS item_id, SUM(sol.quantity) AS quantity
FROM sales_order_lines sol
JOIN sales_orders so ON so.id = sol.sales_order_id
WHERE so.status = ? AND so.workflow_stage = ?
GROUP BY sol.item_id`

	packagingSql := `
SELECT sol.item_id AS item_id, SUM(sol.quantity) AS quantity
FROM sales_order_lines sol
JOIN sales_orders so ON so.id = sol.sales_order_id
WHERE so.workflow_stage = ? AND so.status <> ?
GROUP BY sol.item_id`

	var allocated []itemQuantitySum
	if err := tx.WithContext(ctx).
		Raw(allocatedSql, OrderStatusInventoryReserved, StageAwaitingApproval).
		Scan(&allocated).Error; err != nil {
		return err
	}

	var packaging []itemQuantitySum
	if err := tx.WithContext(ctx).
		Raw(packagingSql, StagePackaging, OrderStatusCancelled).
		Scan(&packaging).Error; err != nil {
		return err
	}

	// Items with no matching lines go back to zero.
	if err := tx.WithContext(ctx).Model(&MerchItem{}).Where("1 = 1").
		Updates(map[string]interface{}{
			"allocated_stock": 0,
			"packaging_stock": 0,
		}).Error; err != nil {
		return err
	}

	for _, row := range allocated {
		if err := tx.WithContext(ctx).Model(&MerchItem{}).Where("id = ?", row.ItemId).
			Update("allocated_stock", row.Quantity).Error; err != nil {
			return err
		}
	}
	for _, row := range packaging {
		if err := tx.WithContext(ctx).Model(&MerchItem{}).Where("id = ?", row.ItemId).
			Update("packaging_stock", row.Quantity).Error; err != nil {
			return err
		}
	}

	return nil
}

// RecalculateAllocations runs the allocation recompute in its own
// transaction (maintenance path; the workflow operations invoke the
// recompute inside their own transactions).
func RecalculateAllocations(ctx context.Context) error {
	db := config.GetDB()

	tx := db.Begin()
	if err := recalcAllocations(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
