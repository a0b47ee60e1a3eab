package models

import (
	"context"
	"time"

	"github.com/hooperp/franchise_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a chart-of-accounts entry.
type Account struct {
	ID            int       `gorm:"primary_key" json:"id"`
	Code          string    `gorm:"size:16;uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Type          string    `gorm:"size:16;not null" json:"type"`
	NormalBalance string    `gorm:"size:8;not null" json:"normal_balance"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func getAccountId(ctx context.Context, tx *gorm.DB, code string) (int, error) {
	var id int
	err := tx.WithContext(ctx).Model(&Account{}).Where("code = ?", code).
		Limit(1).Pluck("id", &id).Error
	if err != nil {
		return 0, err
	}
	return id, nil
}

// accountNetDebit sums debit - credit over posted lines for one account
// code. Debit-normal accounts (assets, expenses) read positive.
func accountNetDebit(ctx context.Context, db *gorm.DB, code string) (decimal.Decimal, error) {
	sql := `
SELECT COALESCE(SUM(jl.debit - jl.credit), 0) AS balance
FROM journal_lines jl
JOIN accounts a ON a.id = jl.account_id
WHERE a.code = ?`

	var balance decimal.Decimal
	if err := db.WithContext(ctx).Raw(sql, code).Scan(&balance).Error; err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func GetAccounts(ctx context.Context) ([]*Account, error) {
	db := config.GetDB()
	var accounts []*Account
	if err := db.WithContext(ctx).Order("code").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
