package models

import (
	"context"

	"github.com/hooperp/franchise_backend/config"
	"github.com/shopspring/decimal"
)

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// SeedDefaults loads the chart of accounts, demo stores, items, games and
// roster. Idempotent: each block is skipped when its table has rows,
// except the chart, which is always reconciled.
func SeedDefaults(ctx context.Context) error {
	db := config.GetDB()

	chart := []Account{
		{Code: AccountCodeCash, Name: "Operating Cash", Type: AccountTypeAsset, NormalBalance: "Debit"},
		{Code: AccountCodeAR, Name: "Accounts Receivable", Type: AccountTypeAsset, NormalBalance: "Debit"},
		{Code: AccountCodeInventory, Name: "Merchandise Inventory", Type: AccountTypeAsset, NormalBalance: "Debit"},
		{Code: AccountCodeAP, Name: "Accounts Payable", Type: AccountTypeLiability, NormalBalance: "Credit"},
		{Code: AccountCodeEquity, Name: "Owner's Equity", Type: AccountTypeEquity, NormalBalance: "Credit"},
		{Code: AccountCodeTicketRev, Name: "Ticket Sales Revenue", Type: AccountTypeRevenue, NormalBalance: "Credit"},
		{Code: AccountCodeMerchRev, Name: "Merchandise Revenue", Type: AccountTypeRevenue, NormalBalance: "Credit"},
		{Code: AccountCodeCOGS, Name: "Merchandise COGS", Type: AccountTypeExpense, NormalBalance: "Debit"},
		{Code: AccountCodeArenaOps, Name: "Arena Operations Expense", Type: AccountTypeExpense, NormalBalance: "Debit"},
	}
	for _, account := range chart {
		var count int64
		if err := db.WithContext(ctx).Model(&Account{}).
			Where("code = ?", account.Code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.WithContext(ctx).Create(&account).Error; err != nil {
				return err
			}
		}
	}

	if _, err := GetTimeline(ctx); err != nil {
		return err
	}

	var storeCount int64
	if err := db.WithContext(ctx).Model(&RetailStore{}).Count(&storeCount).Error; err != nil {
		return err
	}
	if storeCount == 0 {
		stores := []RetailStore{
			{Name: "Caps Canada", Tier: "Gold", ContactName: "Alicia Bennett", ContactEmail: "ordering@capscanada.ca"},
			{Name: "BootLocker", Tier: "Platinum", ContactName: "Jordan Patel", ContactEmail: "bulk@bootlocker.com"},
			{Name: "Naikee", Tier: "Silver", ContactName: "Diego Ramirez", ContactEmail: "retail@naikee.com"},
		}
		if err := db.WithContext(ctx).Create(&stores).Error; err != nil {
			return err
		}
	}

	var itemCount int64
	if err := db.WithContext(ctx).Model(&MerchItem{}).Count(&itemCount).Error; err != nil {
		return err
	}
	if itemCount == 0 {
		items := []MerchItem{
			{Sku: "JERSEY-HOME-23", Name: "Home Jersey #23", CostPrice: money("42.50"), SellPrice: money("89.99"), CurrentStock: 180, ReorderLevel: 60, MinInventoryLevel: 100, AllocatedStock: 54, PackagingStock: 36},
			{Sku: "JERSEY-AWAY-14", Name: "Away Jersey #14", CostPrice: money("42.50"), SellPrice: money("89.99"), CurrentStock: 140, ReorderLevel: 50, MinInventoryLevel: 85, AllocatedStock: 40, PackagingStock: 28},
			{Sku: "HOODIE-CLASSIC", Name: "Classic Team Hoodie", CostPrice: money("28.00"), SellPrice: money("59.99"), CurrentStock: 90, ReorderLevel: 40, MinInventoryLevel: 70, AllocatedStock: 26, PackagingStock: 18},
			{Sku: "CAP-SNAPBACK", Name: "Snapback Cap", CostPrice: money("9.00"), SellPrice: money("24.99"), CurrentStock: 210, ReorderLevel: 80, MinInventoryLevel: 125, AllocatedStock: 64, PackagingStock: 32},
			{Sku: "TEE-PRIMARY", Name: "Primary Logo Tee", CostPrice: money("6.50"), SellPrice: money("19.99"), CurrentStock: 320, ReorderLevel: 120, MinInventoryLevel: 180, AllocatedStock: 48, PackagingStock: 30},
			{Sku: "BASKETBALL-SIG", Name: "Signature Basketball", CostPrice: money("18.00"), SellPrice: money("39.99"), CurrentStock: 75, ReorderLevel: 30, MinInventoryLevel: 60, AllocatedStock: 20, PackagingStock: 12},
		}
		if err := db.WithContext(ctx).Create(&items).Error; err != nil {
			return err
		}
	}

	var gameCount int64
	if err := db.WithContext(ctx).Model(&Game{}).Count(&gameCount).Error; err != nil {
		return err
	}
	if gameCount == 0 {
		games := []Game{
			{Opponent: "Lakers", GameWeek: 3, Venue: "Home Arena"},
			{Opponent: "Warriors", GameWeek: 3, Venue: "Away"},
			{Opponent: "Celtics", GameWeek: 4, Venue: "Home Arena"},
			{Opponent: "Bulls", GameWeek: 5, Venue: "Away"},
		}
		if err := db.WithContext(ctx).Create(&games).Error; err != nil {
			return err
		}
	}

	var playerCount int64
	if err := db.WithContext(ctx).Model(&Player{}).Count(&playerCount).Error; err != nil {
		return err
	}
	if playerCount == 0 {
		players := []Player{
			{Name: "James Anderson", Position: "Point Guard", Age: 24, Overall: 85, Active: true},
			{Name: "Marcus Johnson", Position: "Shooting Guard", Age: 26, Overall: 82, Active: true},
			{Name: "David Williams", Position: "Small Forward", Age: 25, Overall: 88, Active: true},
			{Name: "Robert Davis", Position: "Power Forward", Age: 28, Overall: 84, Active: true},
			{Name: "Michael Thompson", Position: "Center", Age: 27, Overall: 86, Active: true},
		}
		if err := db.WithContext(ctx).Create(&players).Error; err != nil {
			return err
		}
		contracts := []PlayerContract{
			{PlayerId: players[0].ID, StartYear: 2024, EndYear: 2027, Aav: money("2100000"), Guaranteed: money("6300000"), Status: ContractStatusActive},
			{PlayerId: players[1].ID, StartYear: 2023, EndYear: 2026, Aav: money("1800000"), Guaranteed: money("5400000"), Status: ContractStatusActive},
			{PlayerId: players[2].ID, StartYear: 2024, EndYear: 2029, Aav: money("2500000"), Guaranteed: money("12500000"), Status: ContractStatusActive},
			{PlayerId: players[3].ID, StartYear: 2022, EndYear: 2025, Aav: money("1900000"), Guaranteed: money("5700000"), Status: ContractStatusActive},
			{PlayerId: players[4].ID, StartYear: 2023, EndYear: 2027, Aav: money("2200000"), Guaranteed: money("8800000"), Status: ContractStatusActive},
		}
		if err := db.WithContext(ctx).Create(&contracts).Error; err != nil {
			return err
		}
	}

	return nil
}
