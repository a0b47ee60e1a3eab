package models

import (
	"context"
	"time"

	"github.com/hooperp/franchise_backend/config"
	"github.com/shopspring/decimal"
)

type MerchInvoice struct {
	ID           int             `gorm:"primary_key" json:"id"`
	InvoiceCode  string          `gorm:"size:32;uniqueIndex;not null" json:"invoice_code"`
	SalesOrderId int             `gorm:"index;not null" json:"sales_order_id"`
	StoreId      int             `gorm:"index;not null" json:"store_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	PaidAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	IssuedWeek   int             `gorm:"not null" json:"issued_week"`
	DueWeek      int             `gorm:"not null" json:"due_week"`
	Status       string          `gorm:"size:16;not null;default:Unpaid" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func validInvoiceStatus(status string) bool {
	switch status {
	case InvoiceStatusUnpaid, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// UpdateInvoiceStatus flips an invoice's status. Marking Paid settles the
// invoice in full and fires the ledger posting for its order inside the
// same transaction (idempotent, see posting.go). Unknown ids and
// unchanged statuses are silent no-ops.
func UpdateInvoiceStatus(ctx context.Context, id int, status string) (*MerchInvoice, error) {
	if !validInvoiceStatus(status) {
		return nil, nil
	}

	db := config.GetDB()
	var invoice MerchInvoice
	if err := db.WithContext(ctx).First(&invoice, id).Error; err != nil {
		return nil, nil
	}
	if invoice.Status == status {
		return &invoice, nil
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	updates := map[string]interface{}{"status": status}
	if status == InvoiceStatusPaid {
		updates["paid_amount"] = invoice.Amount
	}
	if err := tx.WithContext(ctx).Model(&invoice).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if status == InvoiceStatusPaid {
		if err := postSalesOrderSettlement(ctx, tx, &invoice, week); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	invoice.Status = status
	if status == InvoiceStatusPaid {
		invoice.PaidAmount = invoice.Amount
	}
	return &invoice, nil
}

// RecordInvoicePayment applies a partial payment without settling the
// invoice. The snapshot's recognition adjustment prorates revenue from
// these balances until the full settlement posting fires.
func RecordInvoicePayment(ctx context.Context, id int, amount decimal.Decimal) (*MerchInvoice, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	db := config.GetDB()
	var invoice MerchInvoice
	if err := db.WithContext(ctx).First(&invoice, id).Error; err != nil {
		return nil, nil
	}
	if invoice.Status == InvoiceStatusPaid {
		return &invoice, nil
	}

	paid := invoice.PaidAmount.Add(amount)
	if paid.GreaterThan(invoice.Amount) {
		paid = invoice.Amount
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&invoice).Update("paid_amount", paid).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	invoice.PaidAmount = paid
	return &invoice, nil
}

// InvoiceAgingSummary buckets outstanding invoice amounts by how many
// weeks past due they are.
type InvoiceAgingSummary struct {
	Current      decimal.Decimal `json:"current"`
	OverdueShort decimal.Decimal `json:"overdue_1_to_4_weeks"`
	OverdueMid   decimal.Decimal `json:"overdue_5_to_8_weeks"`
	OverdueLong  decimal.Decimal `json:"overdue_9_plus_weeks"`
}

func GetInvoiceAgingSummary(ctx context.Context) (*InvoiceAgingSummary, error) {
	db := config.GetDB()

	var invoices []MerchInvoice
	if err := db.WithContext(ctx).Where("status <> ?", InvoiceStatusPaid).
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	summary := InvoiceAgingSummary{
		Current:      decimal.Zero,
		OverdueShort: decimal.Zero,
		OverdueMid:   decimal.Zero,
		OverdueLong:  decimal.Zero,
	}
	for i := range invoices {
		weeksLeft := invoices[i].DueWeek - week
		switch {
		case weeksLeft >= 0:
			summary.Current = summary.Current.Add(invoices[i].Amount)
		case weeksLeft >= -4:
			summary.OverdueShort = summary.OverdueShort.Add(invoices[i].Amount)
		case weeksLeft >= -8:
			summary.OverdueMid = summary.OverdueMid.Add(invoices[i].Amount)
		default:
			summary.OverdueLong = summary.OverdueLong.Add(invoices[i].Amount)
		}
	}
	return &summary, nil
}

func GetInvoices(ctx context.Context) ([]*MerchInvoice, error) {
	db := config.GetDB()
	var invoices []*MerchInvoice
	if err := db.WithContext(ctx).Order("due_week, id").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
