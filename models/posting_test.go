package models_test

import (
	"testing"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/models"
	"github.com/shopspring/decimal"
)

// Full path: order -> ship (invoice issued) -> mark Paid. The settlement
// entry must balance and must post exactly once no matter how often the
// invoice status churns.
func TestInvoicePaidPostsBalancedSettlementOnce(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(2)
	seedChart(t, ctx)
	store := createTestStore(t, ctx)
	item := createTestItem(t, ctx, testItemSpec{sku: "PAY-1", cost: 10, sell: 20, currentStock: 50})

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

	var invoice models.MerchInvoice
	if err := config.GetDB().Where("sales_order_id = ?", order.ID).First(&invoice).Error; err != nil {
		t.Fatalf("fetch invoice: %v", err)
	}

	paid, err := models.UpdateInvoiceStatus(ctx, invoice.ID, models.InvoiceStatusPaid)
	if err != nil {
		t.Fatalf("mark Paid: %v", err)
	}
	if !paid.PaidAmount.Equal(paid.Amount) {
		t.Fatalf("Paid must settle in full, paid=%s amount=%s", paid.PaidAmount, paid.Amount)
	}

	entries, err := models.GetJournals(ctx)
	if err != nil {
		t.Fatalf("GetJournals: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.EntryNumber != "JE-0001" {
		t.Fatalf("expected JE-0001, got %s", entry.EntryNumber)
	}
	if entry.Description != "Sales order "+order.OrderCode+" payment" {
		t.Fatalf("unexpected description %q", entry.Description)
	}
	if len(entry.Lines) != 4 {
		t.Fatalf("expected 4 lines (cash/revenue/cogs/inventory), got %d", len(entry.Lines))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range entry.Lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
		if line.ReferenceType == nil || *line.ReferenceType != models.ReferenceTypeSalesOrder {
			t.Fatalf("line missing sales_order reference: %+v", line)
		}
		if line.ReferenceId == nil || *line.ReferenceId != order.ID {
			t.Fatalf("line references wrong order: %+v", line)
		}
	}
	if !totalDebit.Equal(totalCredit) {
		t.Fatalf("entry does not balance: debit=%s credit=%s", totalDebit, totalCredit)
	}
	// 100 cash/revenue + 50 COGS/inventory.
	if !totalDebit.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected total debit 150, got %s", totalDebit)
	}

	// Churn the status and pay again: the reference guard must hold.
	if _, err := models.UpdateInvoiceStatus(ctx, invoice.ID, models.InvoiceStatusOverdue); err != nil {
		t.Fatalf("flip Overdue: %v", err)
	}
	if _, err := models.UpdateInvoiceStatus(ctx, invoice.ID, models.InvoiceStatusPaid); err != nil {
		t.Fatalf("re-pay: %v", err)
	}
	entries, err = models.GetJournals(ctx)
	if err != nil {
		t.Fatalf("GetJournals: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("settlement must post once, got %d entries", len(entries))
	}
}

func TestCreateJournalValidatesAndNumbersEntries(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(3)
	seedChart(t, ctx)

	var cash, arena models.Account
	if err := config.GetDB().Where("code = ?", models.AccountCodeCash).First(&cash).Error; err != nil {
		t.Fatalf("fetch cash account: %v", err)
	}
	if err := config.GetDB().Where("code = ?", models.AccountCodeArenaOps).First(&arena).Error; err != nil {
		t.Fatalf("fetch arena account: %v", err)
	}

	_, err := models.CreateJournal(ctx, &models.NewJournal{
		Description: "unbalanced",
		Lines: []models.NewJournalTransaction{
			{AccountId: arena.ID, Debit: decimal.NewFromInt(100)},
			{AccountId: cash.ID, Credit: decimal.NewFromInt(90)},
		},
	})
	if err == nil {
		t.Fatal("expected balance error")
	}

	_, err = models.CreateJournal(ctx, &models.NewJournal{
		Description: "both sides",
		Lines: []models.NewJournalTransaction{
			{AccountId: arena.ID, Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)},
		},
	})
	if err == nil {
		t.Fatal("expected one-side-per-line error")
	}

	first, err := models.CreateJournal(ctx, &models.NewJournal{
		Description: "Arena operations accrual",
		Lines: []models.NewJournalTransaction{
			{AccountId: arena.ID, Debit: decimal.NewFromInt(125000), Memo: "Arena ops"},
			{AccountId: cash.ID, Credit: decimal.NewFromInt(125000)},
		},
	})
	if err != nil {
		t.Fatalf("CreateJournal: %v", err)
	}
	if first.EntryNumber != "JE-0001" {
		t.Fatalf("expected JE-0001, got %s", first.EntryNumber)
	}
	if first.EntryWeek != 3 {
		t.Fatalf("expected entry week 3, got %d", first.EntryWeek)
	}

	second, err := models.CreateJournal(ctx, &models.NewJournal{
		Description: "Travel costs",
		Lines: []models.NewJournalTransaction{
			{AccountId: arena.ID, Debit: decimal.NewFromInt(10)},
			{AccountId: cash.ID, Credit: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("CreateJournal second: %v", err)
	}
	if second.EntryNumber != "JE-0002" {
		t.Fatalf("expected JE-0002, got %s", second.EntryNumber)
	}
}
