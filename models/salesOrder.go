package models

import (
	"context"
	"errors"
	"time"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesOrder struct {
	ID            int              `gorm:"primary_key" json:"id"`
	OrderCode     string           `gorm:"size:32;uniqueIndex;not null" json:"order_code"`
	StoreId       int              `gorm:"index;not null" json:"store_id"`
	Status        string           `gorm:"size:64;not null" json:"status"`
	WorkflowStage string           `gorm:"size:64;not null" json:"workflow_stage"`
	OrderWeek     int              `gorm:"index;not null" json:"order_week"`
	TotalAmount   decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Notes         string           `gorm:"type:text" json:"notes"`
	Lines         []SalesOrderLine `gorm:"foreignKey:SalesOrderId" json:"lines"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// Lines are immutable after creation; corrections replace the order.
type SalesOrderLine struct {
	ID           int             `gorm:"primary_key" json:"id"`
	SalesOrderId int             `gorm:"index;not null" json:"sales_order_id"`
	ItemId       int             `gorm:"index;not null" json:"item_id"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
}

type NewSalesOrder struct {
	StoreId int                 `json:"store_id" binding:"required"`
	Lines   []NewSalesOrderLine `json:"lines" binding:"required"`
	Notes   string              `json:"notes"`
	// ForceBackorder creates the order as a Backorder without the
	// availability check (the caller's answer to a shortage report).
	ForceBackorder bool `json:"force_backorder"`
}

type NewSalesOrderLine struct {
	ItemId    int             `json:"item_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// StockShortage reports a line the warehouse cannot cover. Shortage is a
// decision point, not an error: the caller reduces quantities or retries
// with ForceBackorder.
type StockShortage struct {
	ItemId    int    `json:"item_id"`
	Sku       string `json:"sku"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type BackorderResolution struct {
	TotalBackorders      int      `json:"total_backorders"`
	ResolvedOrderCodes   []string `json:"resolved_order_codes"`
	UnresolvedOrderCodes []string `json:"unresolved_order_codes"`
}

func (input *NewSalesOrder) validate(ctx context.Context) error {
	if len(input.Lines) == 0 {
		return errors.New("a sales order requires at least one line item")
	}
	for _, line := range input.Lines {
		if line.Quantity < MinimumOrderQuantity {
			return errors.New("each line item must meet the minimum order quantity of five units")
		}
	}
	if err := utils.ValidateResourceId[RetailStore](ctx, input.StoreId); err != nil {
		return errors.New("store not found")
	}
	itemIds := make([]int, 0, len(input.Lines))
	for _, line := range input.Lines {
		itemIds = append(itemIds, line.ItemId)
	}
	if err := utils.ValidateResourcesId[MerchItem](ctx, itemIds); err != nil {
		return errors.New("item not found")
	}
	return nil
}

// checkAvailability returns a shortage per line whose quantity exceeds
// the item's available units. Lines on the same item draw from the same
// pool.
func (input *NewSalesOrder) checkAvailability(ctx context.Context) ([]StockShortage, error) {
	db := config.GetDB()

	var items []MerchItem
	itemIds := make([]int, 0, len(input.Lines))
	for _, line := range input.Lines {
		itemIds = append(itemIds, line.ItemId)
	}
	if err := db.WithContext(ctx).Where("id IN ?", utils.UniqueSlice(itemIds)).
		Find(&items).Error; err != nil {
		return nil, err
	}

	available := make(map[int]int, len(items))
	skus := make(map[int]string, len(items))
	for i := range items {
		available[items[i].ID] = items[i].Available()
		skus[items[i].ID] = items[i].Sku
	}

	var shortages []StockShortage
	for _, line := range input.Lines {
		if available[line.ItemId] < line.Quantity {
			shortages = append(shortages, StockShortage{
				ItemId:    line.ItemId,
				Sku:       skus[line.ItemId],
				Requested: line.Quantity,
				Available: available[line.ItemId],
			})
			continue
		}
		available[line.ItemId] -= line.Quantity
	}
	return shortages, nil
}

// CreateSalesOrder validates, checks availability, then creates the order
// with its lines, recomputes allocations and runs the reorder trigger per
// distinct item, all in one transaction. A non-empty shortage slice with
// a nil order means nothing was written and the caller must decide.
func CreateSalesOrder(ctx context.Context, input *NewSalesOrder) (*SalesOrder, []StockShortage, error) {

	if err := input.validate(ctx); err != nil {
		return nil, nil, err
	}

	status := OrderStatusInventoryReserved
	if input.ForceBackorder {
		status = OrderStatusBackorder
	} else {
		shortages, err := input.checkAvailability(ctx)
		if err != nil {
			return nil, nil, err
		}
		if len(shortages) > 0 {
			return nil, shortages, nil
		}
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		return nil, nil, err
	}

	totalAmount := decimal.Zero
	lines := make([]SalesOrderLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		totalAmount = totalAmount.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		lines = append(lines, SalesOrderLine{
			ItemId:    line.ItemId,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	order := SalesOrder{
		OrderCode:     utils.GenerateDocumentCode(utils.CodePrefixSalesOrder, week),
		StoreId:       input.StoreId,
		Status:        status,
		WorkflowStage: StageAwaitingApproval,
		OrderWeek:     week,
		TotalAmount:   totalAmount,
		Notes:         input.Notes,
		Lines:         lines,
	}

	db := config.GetDB()
	// db action
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := recalcAllocations(ctx, tx); err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	itemIds := make([]int, 0, len(input.Lines))
	for _, line := range input.Lines {
		itemIds = append(itemIds, line.ItemId)
	}
	for _, itemId := range utils.UniqueSlice(itemIds) {
		if err := maybeTriggerReorder(ctx, tx, itemId, week); err != nil {
			tx.Rollback()
			return nil, nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}
	return &order, nil, nil
}

// UpdateSalesOrderStatus flips the financial status directly (admin
// path). Unknown ids and unchanged statuses are silent no-ops.
func UpdateSalesOrderStatus(ctx context.Context, id int, status string) (*SalesOrder, error) {
	if !validOrderStatus(status) {
		return nil, errors.New("invalid sales order status")
	}

	db := config.GetDB()
	var order SalesOrder
	if err := db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, nil
	}
	if order.Status == status {
		return &order, nil
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := recalcAllocations(ctx, tx); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	order.Status = status
	return &order, nil
}

type WorkflowOptions struct {
	Carrier        *string `json:"carrier"`
	TrackingNumber *string `json:"tracking_number"`
}

// UpdateSalesOrderWorkflow drives an order through its lifecycle.
// Entering Shipped pulls stock and issues the shipment and invoice;
// leaving Shipped restores the stock (corrective path); Delivered closes
// out the shipment and re-evaluates invoice overdue status. Every path
// ends with an allocation recompute.
func UpdateSalesOrderWorkflow(ctx context.Context, id int, stage string, options *WorkflowOptions) (*SalesOrder, error) {
	if !validWorkflowStage(stage) {
		return nil, errors.New("invalid workflow stage")
	}

	db := config.GetDB()
	var order SalesOrder
	if err := db.WithContext(ctx).Preload("Lines").First(&order, id).Error; err != nil {
		return nil, nil
	}

	if stage == StagePackaging && order.WorkflowStage == StageAwaitingApproval &&
		order.Status == OrderStatusBackorder {
		return nil, errors.New("backorder must be resolved before packaging")
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	previousStage := order.WorkflowStage
	nextStatus := order.Status
	// Any stage past approval implies inventory has been confirmed.
	if stage != StageAwaitingApproval && order.Status == OrderStatusBackorder {
		nextStatus = OrderStatusInventoryReserved
	}
	if stage == StageDelivered && order.Status != OrderStatusCancelled {
		nextStatus = OrderStatusInventoryReserved
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&order).Updates(map[string]interface{}{
		"workflow_stage": stage,
		"status":         nextStatus,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if previousStage != StageShipped && stage == StageShipped {
		if err := shipOrder(ctx, tx, &order, week, options); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if previousStage == StageShipped && stage != StageShipped {
		// Corrective path: put the shipped units back.
		for _, line := range order.Lines {
			if err := tx.WithContext(ctx).Model(&MerchItem{}).Where("id = ?", line.ItemId).
				Update("current_stock", gorm.Expr("current_stock + ?", line.Quantity)).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if stage == StageDelivered {
		if err := deliverOrder(ctx, tx, order.ID, week); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := recalcAllocations(ctx, tx); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	order.WorkflowStage = stage
	order.Status = nextStatus
	return &order, nil
}

// shipOrder decrements stock per line and creates the order's single
// shipment and invoice, or patches carrier/tracking on the existing
// shipment.
func shipOrder(ctx context.Context, tx *gorm.DB, order *SalesOrder, week int, options *WorkflowOptions) error {

	for _, line := range order.Lines {
		if err := tx.WithContext(ctx).Model(&MerchItem{}).Where("id = ?", line.ItemId).
			Update("current_stock", gorm.Expr(
				"CASE WHEN current_stock - ? > 0 THEN current_stock - ? ELSE 0 END",
				line.Quantity, line.Quantity)).Error; err != nil {
			return err
		}
	}

	carrier := "Pending Carrier"
	if options != nil && options.Carrier != nil && *options.Carrier != "" {
		carrier = *options.Carrier
	}
	tracking := ""
	if options != nil && options.TrackingNumber != nil {
		tracking = *options.TrackingNumber
	}

	var shipment Shipment
	err := tx.WithContext(ctx).Where("sales_order_id = ?", order.ID).First(&shipment).Error
	if err != nil {
		shipment = Shipment{
			ShipmentCode:     utils.GenerateDocumentCode(utils.CodePrefixShipment, week),
			SalesOrderId:     order.ID,
			StoreId:          order.StoreId,
			Carrier:          carrier,
			TrackingNumber:   tracking,
			Status:           ShipmentStatusReceived,
			ExpectedDelivery: week + 1,
		}
		if err := tx.WithContext(ctx).Create(&shipment).Error; err != nil {
			return err
		}
	} else {
		updates := map[string]interface{}{}
		if options != nil && options.Carrier != nil {
			updates["carrier"] = carrier
		}
		if options != nil && options.TrackingNumber != nil {
			updates["tracking_number"] = tracking
		}
		if len(updates) > 0 {
			if err := tx.WithContext(ctx).Model(&shipment).Updates(updates).Error; err != nil {
				return err
			}
		}
	}

	// First ship issues the invoice, due two weeks out.
	var invoiceCount int64
	if err := tx.WithContext(ctx).Model(&MerchInvoice{}).
		Where("sales_order_id = ?", order.ID).Count(&invoiceCount).Error; err != nil {
		return err
	}
	if invoiceCount == 0 {
		invoice := MerchInvoice{
			InvoiceCode:  utils.GenerateDocumentCode(utils.CodePrefixInvoice, week),
			SalesOrderId: order.ID,
			StoreId:      order.StoreId,
			Amount:       order.TotalAmount,
			IssuedWeek:   week,
			DueWeek:      week + InvoiceDueWeeks,
			Status:       InvoiceStatusUnpaid,
		}
		if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
			return err
		}
	}
	return nil
}

// deliverOrder marks the shipment delivered (actual week defaults to the
// current week) and flips unpaid invoices past their due week to Overdue.
func deliverOrder(ctx context.Context, tx *gorm.DB, orderId int, week int) error {

	if err := tx.WithContext(ctx).Model(&Shipment{}).
		Where("sales_order_id = ?", orderId).
		Updates(map[string]interface{}{
			"status":          ShipmentStatusDelivered,
			"actual_delivery": gorm.Expr("COALESCE(actual_delivery, ?)", week),
		}).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).Model(&MerchInvoice{}).
		Where("sales_order_id = ? AND status <> ? AND due_week < ?",
			orderId, InvoiceStatusPaid, week).
		Update("status", InvoiceStatusOverdue).Error
}

// ResolveBackorders walks Backorder orders oldest-first against a running
// in-memory availability ledger. All-or-nothing per order: an order whose
// lines cannot all be covered stays a Backorder and the walk continues.
func ResolveBackorders(ctx context.Context) (*BackorderResolution, error) {
	db := config.GetDB()

	var backorders []SalesOrder
	if err := db.WithContext(ctx).Preload("Lines").
		Where("status = ?", OrderStatusBackorder).
		Order("order_week ASC, id ASC").
		Find(&backorders).Error; err != nil {
		return nil, err
	}

	var items []MerchItem
	if err := db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	available := make(map[int]int, len(items))
	for i := range items {
		available[items[i].ID] = items[i].Available()
	}

	result := BackorderResolution{
		TotalBackorders:      len(backorders),
		ResolvedOrderCodes:   []string{},
		UnresolvedOrderCodes: []string{},
	}

	var resolvedIds []int
	for i := range backorders {
		order := &backorders[i]
		canFulfill := true
		for _, line := range order.Lines {
			if available[line.ItemId] < line.Quantity {
				canFulfill = false
				break
			}
		}
		if !canFulfill {
			result.UnresolvedOrderCodes = append(result.UnresolvedOrderCodes, order.OrderCode)
			continue
		}
		for _, line := range order.Lines {
			available[line.ItemId] -= line.Quantity
			if available[line.ItemId] < 0 {
				available[line.ItemId] = 0
			}
		}
		resolvedIds = append(resolvedIds, order.ID)
		result.ResolvedOrderCodes = append(result.ResolvedOrderCodes, order.OrderCode)
	}

	if len(resolvedIds) > 0 {
		tx := db.Begin()
		if err := tx.WithContext(ctx).Model(&SalesOrder{}).
			Where("id IN ?", resolvedIds).
			Update("status", OrderStatusInventoryReserved).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := recalcAllocations(ctx, tx); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
	}

	return &result, nil
}

func GetSalesOrder(ctx context.Context, id int) (*SalesOrder, error) {
	return utils.FetchModel[SalesOrder](ctx, id, "Lines")
}

func GetSalesOrders(ctx context.Context) ([]*SalesOrder, error) {
	db := config.GetDB()
	var orders []*SalesOrder
	if err := db.WithContext(ctx).Preload("Lines").
		Order("order_week DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
