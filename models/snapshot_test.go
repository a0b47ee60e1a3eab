package models_test

import (
	"testing"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/models"
	"github.com/shopspring/decimal"
)

// Revenue recognition must come from exactly one source per order:
// proration over payments before the settlement posts, the ledger after.
func TestSnapshotRecognitionSwitchesToLedgerOnSettlement(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(2)
	seedChart(t, ctx)
	store := createTestStore(t, ctx)
	item := createTestItem(t, ctx, testItemSpec{sku: "SNAP-1", cost: 10, sell: 20, currentStock: 50})

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

	// Half paid: recognize 50 of the 100 total, cost prorated to 25.
	if _, err := models.RecordInvoicePayment(ctx, invoice.ID, decimal.NewFromInt(50)); err != nil {
		t.Fatalf("RecordInvoicePayment: %v", err)
	}

	snapshot, err := models.GetSnapshot(ctx)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if !snapshot.MerchandiseRevenue.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected prorated revenue 50, got %s", snapshot.MerchandiseRevenue)
	}
	if !snapshot.MerchandiseCost.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected prorated cost 25, got %s", snapshot.MerchandiseCost)
	}

	// Settle in full: the posting moves the order to the ledger and the
	// proration must stop counting it.
	if _, err := models.UpdateInvoiceStatus(ctx, invoice.ID, models.InvoiceStatusPaid); err != nil {
		t.Fatalf("mark Paid: %v", err)
	}

	snapshot, err = models.GetSnapshot(ctx)
	if err != nil {
		t.Fatalf("GetSnapshot after settle: %v", err)
	}
	if !snapshot.MerchandiseRevenue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected ledger revenue 100, got %s", snapshot.MerchandiseRevenue)
	}
	if !snapshot.MerchandiseCost.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected ledger cost 50, got %s", snapshot.MerchandiseCost)
	}
	if !snapshot.NetProfit.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected net profit 50, got %s", snapshot.NetProfit)
	}
}

func TestSnapshotBlendsTicketRevenueAndArenaAccrual(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(4)
	seedChart(t, ctx)
	lakers := createTestGame(t, "Lakers", 3)
	createTestGame(t, "Bulls", 5)

	if err := config.GetDB().Create(&models.GameTicketSales{
		GameId:               lakers.ID,
		AttendancePercentage: 40,
	}).Error; err != nil {
		t.Fatalf("seed sales: %v", err)
	}

	snapshot, err := models.GetSnapshot(ctx)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	// 40% of 10000 seats at $75.
	if !snapshot.TicketRevenue.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("expected ticket revenue 300000, got %s", snapshot.TicketRevenue)
	}
	// Only the closed game accrues arena operations.
	if !snapshot.ArenaOperationsAccrual.Equal(decimal.NewFromInt(125000)) {
		t.Fatalf("expected accrual 125000, got %s", snapshot.ArenaOperationsAccrual)
	}
	if !snapshot.ArenaOperationsExpense.Equal(decimal.NewFromInt(125000)) {
		t.Fatalf("expected expense 125000 with empty ledger, got %s", snapshot.ArenaOperationsExpense)
	}
	if !snapshot.TotalRevenue.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("expected total revenue 300000, got %s", snapshot.TotalRevenue)
	}
	if !snapshot.NetProfit.Equal(decimal.NewFromInt(175000)) {
		t.Fatalf("expected net profit 175000, got %s", snapshot.NetProfit)
	}
}

func TestSnapshotOtherExpensesExcludeCogsAndArena(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(2)
	seedChart(t, ctx)

	var cash, travel models.Account
	if err := config.GetDB().Where("code = ?", models.AccountCodeCash).First(&cash).Error; err != nil {
		t.Fatalf("fetch cash: %v", err)
	}
	if err := config.GetDB().Where("code = ?", "5300").First(&travel).Error; err != nil {
		t.Fatalf("fetch travel: %v", err)
	}

	if _, err := models.CreateJournal(ctx, &models.NewJournal{
		Description: "Team travel",
		Lines: []models.NewJournalTransaction{
			{AccountId: travel.ID, Debit: decimal.NewFromInt(4200)},
			{AccountId: cash.ID, Credit: decimal.NewFromInt(4200)},
		},
	}); err != nil {
		t.Fatalf("CreateJournal: %v", err)
	}

	snapshot, err := models.GetSnapshot(ctx)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if !snapshot.OtherExpenses.Equal(decimal.NewFromInt(4200)) {
		t.Fatalf("expected other expenses 4200, got %s", snapshot.OtherExpenses)
	}
	if !snapshot.MerchandiseCost.IsZero() {
		t.Fatalf("travel must not leak into COGS, got %s", snapshot.MerchandiseCost)
	}
}
