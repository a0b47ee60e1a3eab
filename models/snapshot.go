package models

import (
	"context"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountingSnapshot is the read-only financial view derived from ledger
// balances, unposted-invoice recognition and the ticket engine.
type AccountingSnapshot struct {
	TotalRevenue           decimal.Decimal      `json:"total_revenue"`
	TotalExpenses          decimal.Decimal      `json:"total_expenses"`
	NetProfit              decimal.Decimal      `json:"net_profit"`
	MerchandiseRevenue     decimal.Decimal      `json:"merchandise_revenue"`
	TicketRevenue          decimal.Decimal      `json:"ticket_revenue"`
	MerchandiseCost        decimal.Decimal      `json:"merchandise_cost"`
	ArenaOperationsExpense decimal.Decimal      `json:"arena_operations_expense"`
	ArenaOperationsAccrual decimal.Decimal      `json:"arena_operations_accrual"`
	OtherExpenses          decimal.Decimal      `json:"other_expenses"`
	MerchandiseOrders      []MerchOrderSummary  `json:"merchandise_orders"`
	TicketGames            []*TicketGameSummary `json:"ticket_games"`
}

type MerchOrderSummary struct {
	ID          int             `json:"id"`
	OrderCode   string          `json:"order_code"`
	OrderWeek   int             `json:"order_week"`
	WeekLabel   string          `json:"week_label"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type orderRecognitionRow struct {
	OrderId    int             `gorm:"column:order_id"`
	OrderTotal decimal.Decimal `gorm:"column:order_total"`
	PaidAmount decimal.Decimal `gorm:"column:paid_amount"`
	OrderCost  decimal.Decimal `gorm:"column:order_cost"`
}

// merchandiseFinancials blends ledger-recognized revenue/cost with a
// proration for orders that have payments but no journal reference yet.
// The exclusion predicate is the same one the posting idempotence guard
// uses, so an order is counted by exactly one of the two sources.
func merchandiseFinancials(ctx context.Context, db *gorm.DB) (revenue, cost decimal.Decimal, err error) {

	ledgerRevenueSql := `
SELECT COALESCE(SUM(jl.credit - jl.debit), 0) AS balance
FROM journal_lines jl
JOIN accounts a ON a.id = jl.account_id
WHERE a.code = ?`

	var ledgerRevenue decimal.Decimal
	if err = db.WithContext(ctx).Raw(ledgerRevenueSql, AccountCodeMerchRev).
		Scan(&ledgerRevenue).Error; err != nil {
		return
	}
	var ledgerCost decimal.Decimal
	if ledgerCost, err = accountNetDebit(ctx, db, AccountCodeCOGS); err != nil {
		return
	}

	recognitionSql := `
SELECT
  so.id AS order_id,
  so.total_amount AS order_total,
  COALESCE((
    SELECT SUM(CASE WHEN inv.status = 'Paid' THEN inv.amount ELSE inv.paid_amount END)
    FROM merch_invoices inv
    WHERE inv.sales_order_id = so.id
  ), 0) AS paid_amount,
  COALESCE((
    SELECT SUM(sol.quantity * mi.cost_price)
    FROM sales_order_lines sol
    JOIN merch_items mi ON mi.id = sol.item_id
    WHERE sol.sales_order_id = so.id
  ), 0) AS order_cost
FROM sales_orders so
WHERE so.id NOT IN (
  SELECT DISTINCT jl.reference_id
  FROM journal_lines jl
  WHERE jl.reference_type = ? AND jl.reference_id IS NOT NULL
)`

	var rows []orderRecognitionRow
	if err = db.WithContext(ctx).Raw(recognitionSql, ReferenceTypeSalesOrder).
		Scan(&rows).Error; err != nil {
		return
	}

	invoiceRevenue := decimal.Zero
	invoiceCost := decimal.Zero
	for _, row := range rows {
		if row.PaidAmount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		var recognized decimal.Decimal
		var ratio decimal.Decimal
		if row.OrderTotal.GreaterThan(decimal.Zero) {
			recognized = decimal.Min(row.PaidAmount, row.OrderTotal)
			ratio = decimal.Min(decimal.NewFromInt(1), recognized.Div(row.OrderTotal))
		} else {
			recognized = row.PaidAmount
			ratio = decimal.NewFromInt(1)
		}
		invoiceRevenue = invoiceRevenue.Add(recognized)
		invoiceCost = invoiceCost.Add(row.OrderCost.Mul(ratio))
	}

	revenue = ledgerRevenue.Add(invoiceRevenue).Round(2)
	cost = ledgerCost.Add(invoiceCost).Round(2)
	return
}

// otherExpenses sums every Expense-type account except COGS and arena
// operations.
func otherExpenses(ctx context.Context, db *gorm.DB) (decimal.Decimal, error) {
	sql := `
SELECT COALESCE(SUM(jl.debit - jl.credit), 0) AS balance
FROM journal_lines jl
JOIN accounts a ON a.id = jl.account_id
WHERE a.type = ? AND a.code NOT IN (?, ?)`

	var balance decimal.Decimal
	if err := db.WithContext(ctx).Raw(sql, AccountTypeExpense, AccountCodeCOGS, AccountCodeArenaOps).
		Scan(&balance).Error; err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func recentMerchOrders(ctx context.Context, db *gorm.DB, limit int) ([]MerchOrderSummary, error) {
	var orders []SalesOrder
	if err := db.WithContext(ctx).Order("order_week DESC, id DESC").
		Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	summaries := make([]MerchOrderSummary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, MerchOrderSummary{
			ID:          orders[i].ID,
			OrderCode:   orders[i].OrderCode,
			OrderWeek:   orders[i].OrderWeek,
			WeekLabel:   utils.FormatWeekLabel(orders[i].OrderWeek),
			Status:      orders[i].Status,
			TotalAmount: orders[i].TotalAmount,
		})
	}
	return summaries, nil
}

// GetSnapshot assembles the financial dashboard view. Read-only: every
// figure is recomputed from ledger and engine state, nothing is cached.
func GetSnapshot(ctx context.Context) (*AccountingSnapshot, error) {
	db := config.GetDB()

	merchRevenue, merchCost, err := merchandiseFinancials(ctx, db)
	if err != nil {
		return nil, err
	}

	orders, err := recentMerchOrders(ctx, db, 8)
	if err != nil {
		return nil, err
	}

	games, err := GetTicketGames(ctx)
	if err != nil {
		return nil, err
	}
	ticketRevenue := decimal.Zero
	arenaAccrual := decimal.Zero
	for _, game := range games {
		ticketRevenue = ticketRevenue.Add(game.RealizedRevenue)
		arenaAccrual = arenaAccrual.Add(game.ArenaOperationsCost)
	}

	recordedArenaExpense, err := accountNetDebit(ctx, db, AccountCodeArenaOps)
	if err != nil {
		return nil, err
	}
	arenaExpense := recordedArenaExpense.Add(arenaAccrual)

	other, err := otherExpenses(ctx, db)
	if err != nil {
		return nil, err
	}

	totalRevenue := merchRevenue.Add(ticketRevenue)
	totalExpenses := merchCost.Add(arenaExpense).Add(other)

	return &AccountingSnapshot{
		TotalRevenue:           totalRevenue,
		TotalExpenses:          totalExpenses,
		NetProfit:              totalRevenue.Sub(totalExpenses),
		MerchandiseRevenue:     merchRevenue,
		TicketRevenue:          ticketRevenue,
		MerchandiseCost:        merchCost,
		ArenaOperationsExpense: arenaExpense,
		ArenaOperationsAccrual: arenaAccrual,
		OtherExpenses:          other,
		MerchandiseOrders:      orders,
		TicketGames:            games,
	}, nil
}
