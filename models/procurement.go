package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProcurementOrder struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PoCode          string          `gorm:"size:32;uniqueIndex;not null" json:"po_code"`
	ItemId          int             `gorm:"index;not null" json:"item_id"`
	QtyOrdered      int             `gorm:"not null" json:"qty_ordered"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	LeadTimeWeeks   int             `gorm:"not null;default:1" json:"lead_time_weeks"`
	Status          string          `gorm:"size:16;not null;default:Open" json:"status"`
	OrderWeek       int             `gorm:"index;not null" json:"order_week"`
	ExpectedReceipt int             `gorm:"not null" json:"expected_receipt"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProcurementRequest is a pending, unapproved replenishment ask. Approval
// converts it 1:1 into a PO; denial discards it. Either way the row is
// deleted.
type ProcurementRequest struct {
	ID             int       `gorm:"primary_key" json:"id"`
	ItemId         int       `gorm:"index;not null" json:"item_id"`
	QtyRequested   int       `gorm:"not null" json:"qty_requested"`
	MinimumGap     int       `gorm:"not null;default:0" json:"minimum_gap"`
	BackorderUnits int       `gorm:"not null;default:0" json:"backorder_units"`
	RequestWeek    int       `gorm:"not null" json:"request_week"`
	Note           string    `gorm:"type:text" json:"note"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewProcurementRequest struct {
	ItemId         int `json:"item_id" binding:"required"`
	Quantity       int `json:"quantity" binding:"required"`
	MinimumGap     int `json:"minimum_gap"`
	BackorderUnits int `json:"backorder_units"`
}

// maybeTriggerReorder opens a PO when post-allocation projected stock
// falls to the trigger level. At most one Open PO per item; incoming
// stock is bumped immediately (optimistic supply accounting). Runs inside
// the caller's transaction.
func maybeTriggerReorder(ctx context.Context, tx *gorm.DB, itemId int, week int) error {

	var item MerchItem
	if err := tx.WithContext(ctx).First(&item, itemId).Error; err != nil {
		return nil
	}

	triggerLevel := item.ReorderLevel
	if item.MinInventoryLevel > triggerLevel {
		triggerLevel = item.MinInventoryLevel
	}

	// Projected without the Available() zero clamp: oversold allocation
	// must deepen the shortfall, not hide it.
	projected := item.CurrentStock - item.AllocatedStock - item.PackagingStock + item.IncomingStock
	if projected > triggerLevel {
		return nil
	}

	var openCount int64
	if err := tx.WithContext(ctx).Model(&ProcurementOrder{}).
		Where("item_id = ? AND status = ?", itemId, ProcurementStatusOpen).
		Count(&openCount).Error; err != nil {
		return err
	}
	if openCount > 0 {
		return nil
	}

	outstandingDemand := item.AllocatedStock + item.PackagingStock
	shortfall := triggerLevel - projected
	if shortfall < 0 {
		shortfall = 0
	}
	quantity := triggerLevel * 2
	if outstandingDemand > quantity {
		quantity = outstandingDemand
	}
	if shortfall+triggerLevel > quantity {
		quantity = shortfall + triggerLevel
	}
	if quantity < ReorderQuantityFloor {
		quantity = ReorderQuantityFloor
	}

	po := ProcurementOrder{
		PoCode:          utils.GenerateDocumentCode(utils.CodePrefixProcurement, week),
		ItemId:          itemId,
		QtyOrdered:      quantity,
		UnitCost:        item.CostPrice,
		LeadTimeWeeks:   ReorderLeadTimeWeeks,
		Status:          ProcurementStatusOpen,
		OrderWeek:       week,
		ExpectedReceipt: week + ReorderLeadTimeWeeks,
	}
	if err := tx.WithContext(ctx).Create(&po).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).Model(&MerchItem{}).Where("id = ?", itemId).
		Update("incoming_stock", gorm.Expr("incoming_stock + ?", quantity)).Error
}

// RunReorderCheck exposes the trigger for a single item in its own
// transaction (maintenance path and tests).
func RunReorderCheck(ctx context.Context, itemId int) error {
	week, err := CurrentWeek(ctx)
	if err != nil {
		return err
	}
	db := config.GetDB()
	tx := db.Begin()
	if err := maybeTriggerReorder(ctx, tx, itemId, week); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func buildProcurementRequestNote(quantity, minimumGap, backorderUnits int) string {
	var notes []string

	plural := func(n int) string {
		if n == 1 {
			return ""
		}
		return "s"
	}

	if minimumGap > 0 {
		if quantity >= minimumGap {
			notes = append(notes, fmt.Sprintf("Raises stock to minimum target (covers %d unit gap).", minimumGap))
		} else {
			remaining := minimumGap - quantity
			notes = append(notes, fmt.Sprintf("Leaves %d unit%s short of minimum target.", remaining, plural(remaining)))
		}
	}

	if backorderUnits > 0 {
		if quantity >= backorderUnits {
			notes = append(notes, fmt.Sprintf("Fulfills backorders (%d unit%s).", backorderUnits, plural(backorderUnits)))
		} else {
			remaining := backorderUnits - quantity
			notes = append(notes, fmt.Sprintf("Leaves %d backordered unit%s.", remaining, plural(remaining)))
		}
	}

	return strings.Join(notes, " ")
}

// CreateProcurementRequests queues manual replenishment asks. Requests
// with a non-positive quantity are skipped; stock is untouched until
// approval.
func CreateProcurementRequests(ctx context.Context, inputs []NewProcurementRequest) ([]*ProcurementRequest, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	var requests []*ProcurementRequest
	for _, input := range inputs {
		if input.Quantity <= 0 {
			continue
		}
		minimumGap := input.MinimumGap
		if minimumGap < 0 {
			minimumGap = 0
		}
		backorderUnits := input.BackorderUnits
		if backorderUnits < 0 {
			backorderUnits = 0
		}
		requests = append(requests, &ProcurementRequest{
			ItemId:         input.ItemId,
			QtyRequested:   input.Quantity,
			MinimumGap:     minimumGap,
			BackorderUnits: backorderUnits,
			RequestWeek:    week,
			Note:           buildProcurementRequestNote(input.Quantity, minimumGap, backorderUnits),
		})
	}
	if len(requests) == 0 {
		return nil, nil
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&requests).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ApproveProcurementRequest converts the request into an Open PO, bumps
// incoming stock, and deletes the request. Unknown ids are a silent
// no-op; requests for vanished items or zero quantity are discarded.
func ApproveProcurementRequest(ctx context.Context, id int) (*ProcurementOrder, error) {
	db := config.GetDB()

	var request ProcurementRequest
	if err := db.WithContext(ctx).First(&request, id).Error; err != nil {
		return nil, nil
	}

	var item MerchItem
	itemErr := db.WithContext(ctx).First(&item, request.ItemId).Error

	tx := db.Begin()
	if request.QtyRequested <= 0 || itemErr != nil {
		if err := tx.WithContext(ctx).Delete(&request).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	po := ProcurementOrder{
		PoCode:          utils.GenerateDocumentCode(utils.CodePrefixProcurement, week),
		ItemId:          request.ItemId,
		QtyOrdered:      request.QtyRequested,
		UnitCost:        item.CostPrice,
		LeadTimeWeeks:   ReorderLeadTimeWeeks,
		Status:          ProcurementStatusOpen,
		OrderWeek:       week,
		ExpectedReceipt: week + ReorderLeadTimeWeeks,
	}
	if err := tx.WithContext(ctx).Create(&po).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Model(&MerchItem{}).Where("id = ?", request.ItemId).
		Update("incoming_stock", gorm.Expr("incoming_stock + ?", request.QtyRequested)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&request).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &po, nil
}

// DenyProcurementRequest discards the request with no stock effect.
func DenyProcurementRequest(ctx context.Context, id int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Delete(&ProcurementRequest{}, id).Error
}

// UpdateProcurementStatus closes or reopens a PO. Closing moves the full
// quantity from incoming into current stock; reopening reverses the
// movement exactly. Unknown ids, unchanged and unknown statuses are
// silent no-ops.
func UpdateProcurementStatus(ctx context.Context, id int, status string) (*ProcurementOrder, error) {
	if status != ProcurementStatusOpen && status != ProcurementStatusClosed {
		return nil, nil
	}

	db := config.GetDB()
	var po ProcurementOrder
	if err := db.WithContext(ctx).First(&po, id).Error; err != nil {
		return nil, nil
	}
	if po.Status == status {
		return &po, nil
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&po).Update("status", status).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if status == ProcurementStatusClosed {
		if err := tx.WithContext(ctx).Model(&MerchItem{}).Where("id = ?", po.ItemId).
			Updates(map[string]interface{}{
				"incoming_stock": gorm.Expr(
					"CASE WHEN incoming_stock - ? > 0 THEN incoming_stock - ? ELSE 0 END",
					po.QtyOrdered, po.QtyOrdered),
				"current_stock": gorm.Expr("current_stock + ?", po.QtyOrdered),
			}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		if err := tx.WithContext(ctx).Model(&MerchItem{}).Where("id = ?", po.ItemId).
			Updates(map[string]interface{}{
				"incoming_stock": gorm.Expr("incoming_stock + ?", po.QtyOrdered),
				"current_stock": gorm.Expr(
					"CASE WHEN current_stock - ? > 0 THEN current_stock - ? ELSE 0 END",
					po.QtyOrdered, po.QtyOrdered),
			}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	po.Status = status
	return &po, nil
}

func GetProcurementOrders(ctx context.Context) ([]*ProcurementOrder, error) {
	db := config.GetDB()
	var orders []*ProcurementOrder
	if err := db.WithContext(ctx).Order("order_week DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func GetProcurementRequests(ctx context.Context) ([]*ProcurementRequest, error) {
	db := config.GetDB()
	var requests []*ProcurementRequest
	if err := db.WithContext(ctx).Order("request_week DESC, id DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
