package models_test

import (
	"context"
	"os"
	"testing"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/models"
	"github.com/hooperp/franchise_backend/utils"
	"github.com/shopspring/decimal"
)

func TestMain(m *testing.M) {
	config.ConnectTestDatabase()
	models.MigrateTable()
	os.Exit(m.Run())
}

// weekCtx pins the simulated clock for one call chain.
func weekCtx(week int) context.Context {
	ctx := utils.SetUsernameInContext(context.Background(), "test@local")
	return utils.SetCurrentWeekInContext(ctx, week)
}

func resetTables(t *testing.T) {
	t.Helper()
	db := config.GetDB()
	tables := []string{
		"journal_lines", "journal_entries",
		"merch_invoices", "shipments",
		"sales_order_lines", "sales_orders",
		"procurement_requests", "procurement_orders",
		"game_weekly_attendances", "game_ticket_sales", "ticket_week_revenues", "games",
		"player_contracts", "players",
		"merch_items", "retail_stores", "accounts", "timelines",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
}

func seedChart(t *testing.T, ctx context.Context) {
	t.Helper()
	db := config.GetDB()
	accounts := []models.Account{
		{Code: models.AccountCodeCash, Name: "Operating Cash", Type: models.AccountTypeAsset, NormalBalance: "Debit"},
		{Code: models.AccountCodeInventory, Name: "Merchandise Inventory", Type: models.AccountTypeAsset, NormalBalance: "Debit"},
		{Code: models.AccountCodeMerchRev, Name: "Merchandise Revenue", Type: models.AccountTypeRevenue, NormalBalance: "Credit"},
		{Code: models.AccountCodeCOGS, Name: "Merchandise COGS", Type: models.AccountTypeExpense, NormalBalance: "Debit"},
		{Code: models.AccountCodeArenaOps, Name: "Arena Operations Expense", Type: models.AccountTypeExpense, NormalBalance: "Debit"},
		{Code: "5300", Name: "Travel Expense", Type: models.AccountTypeExpense, NormalBalance: "Debit"},
	}
	if err := db.WithContext(ctx).Create(&accounts).Error; err != nil {
		t.Fatalf("seed chart: %v", err)
	}
}

func createTestStore(t *testing.T, ctx context.Context) *models.RetailStore {
	t.Helper()
	store := models.RetailStore{Name: "Test Outlet", Tier: "Gold"}
	if err := config.GetDB().WithContext(ctx).Create(&store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	return &store
}

type testItemSpec struct {
	sku          string
	cost         int64
	sell         int64
	currentStock int
	reorderLevel int
	minLevel     int
}

func createTestItem(t *testing.T, ctx context.Context, spec testItemSpec) *models.MerchItem {
	t.Helper()
	item := models.MerchItem{
		Sku:               spec.sku,
		Name:              "Item " + spec.sku,
		CostPrice:         decimal.NewFromInt(spec.cost),
		SellPrice:         decimal.NewFromInt(spec.sell),
		CurrentStock:      spec.currentStock,
		ReorderLevel:      spec.reorderLevel,
		MinInventoryLevel: spec.minLevel,
	}
	if err := config.GetDB().WithContext(ctx).Create(&item).Error; err != nil {
		t.Fatalf("create item %s: %v", spec.sku, err)
	}
	return &item
}

func fetchItem(t *testing.T, ctx context.Context, id int) *models.MerchItem {
	t.Helper()
	item, err := models.GetMerchItem(ctx, id)
	if err != nil {
		t.Fatalf("fetch item %d: %v", id, err)
	}
	return item
}
