package models

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderCost sums quantity x item cost price over an order's lines.
func orderCost(ctx context.Context, tx *gorm.DB, orderId int) (decimal.Decimal, error) {
	sql := `
SELECT COALESCE(SUM(sol.quantity * mi.cost_price), 0) AS cost
FROM sales_order_lines sol
JOIN merch_items mi ON mi.id = sol.item_id
WHERE sol.sales_order_id = ?`

	var cost decimal.Decimal
	if err := tx.WithContext(ctx).Raw(sql, orderId).Scan(&cost).Error; err != nil {
		return decimal.Zero, err
	}
	return cost, nil
}

// postSalesOrderSettlement writes the balanced settlement entry for a
// paid invoice: Cash debit / Merchandise Revenue credit for the invoice
// amount, plus COGS debit / Inventory credit when the order cost is
// positive. Idempotence guard: a journal line already referencing
// (sales_order, orderId) means the order is settled and the whole posting
// is skipped. Runs inside the invoice-update transaction.
func postSalesOrderSettlement(ctx context.Context, tx *gorm.DB, invoice *MerchInvoice, week int) error {

	orderId := invoice.SalesOrderId
	if orderId == 0 || invoice.Amount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	var referenced int64
	if err := tx.WithContext(ctx).Model(&JournalLine{}).
		Where("reference_type = ? AND reference_id = ?", ReferenceTypeSalesOrder, orderId).
		Count(&referenced).Error; err != nil {
		return err
	}
	if referenced > 0 {
		return nil
	}

	var order SalesOrder
	if err := tx.WithContext(ctx).First(&order, orderId).Error; err != nil {
		return nil
	}

	cost, err := orderCost(ctx, tx, orderId)
	if err != nil {
		return err
	}

	cashId, err := getAccountId(ctx, tx, AccountCodeCash)
	if err != nil {
		return err
	}
	revenueId, err := getAccountId(ctx, tx, AccountCodeMerchRev)
	if err != nil {
		return err
	}
	cogsId, err := getAccountId(ctx, tx, AccountCodeCOGS)
	if err != nil {
		return err
	}
	inventoryId, err := getAccountId(ctx, tx, AccountCodeInventory)
	if err != nil {
		return err
	}
	if cashId == 0 || revenueId == 0 {
		return nil
	}

	refType := ReferenceTypeSalesOrder
	invoiceId := invoice.ID

	lines := []JournalLine{
		{
			AccountId:     cashId,
			Debit:         invoice.Amount,
			ReferenceType: &refType,
			ReferenceId:   &orderId,
			InvoiceId:     &invoiceId,
			Memo:          fmt.Sprintf("Cash received for %s", order.OrderCode),
		},
		{
			AccountId:     revenueId,
			Credit:        invoice.Amount,
			ReferenceType: &refType,
			ReferenceId:   &orderId,
			InvoiceId:     &invoiceId,
			Memo:          fmt.Sprintf("Recognize merchandise revenue for %s", order.OrderCode),
		},
	}

	totalAmount := invoice.Amount
	if cost.GreaterThan(decimal.Zero) && cogsId != 0 && inventoryId != 0 {
		totalAmount = totalAmount.Add(cost)
		lines = append(lines,
			JournalLine{
				AccountId:     cogsId,
				Debit:         cost,
				ReferenceType: &refType,
				ReferenceId:   &orderId,
				InvoiceId:     &invoiceId,
				Memo:          fmt.Sprintf("Record COGS for %s", order.OrderCode),
			},
			JournalLine{
				AccountId:     inventoryId,
				Credit:        cost,
				ReferenceType: &refType,
				ReferenceId:   &orderId,
				InvoiceId:     &invoiceId,
				Memo:          fmt.Sprintf("Reduce inventory for %s", order.OrderCode),
			},
		)
	}

	entryNumber, err := nextEntryNumber(ctx, tx)
	if err != nil {
		return err
	}

	entry := JournalEntry{
		EntryNumber: entryNumber,
		EntryWeek:   week,
		Description: fmt.Sprintf("Sales order %s payment", order.OrderCode),
		Posted:      true,
		TotalAmount: totalAmount,
		Lines:       lines,
	}
	return tx.WithContext(ctx).Create(&entry).Error
}
