package models

import (
	"context"
	"time"

	"github.com/hooperp/franchise_backend/config"
	"github.com/shopspring/decimal"
)

type Player struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Position  string    `gorm:"size:64;not null" json:"position"`
	Age       int       `gorm:"not null" json:"age"`
	Overall   int       `gorm:"not null" json:"overall"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type PlayerContract struct {
	ID         int             `gorm:"primary_key" json:"id"`
	PlayerId   int             `gorm:"index;not null" json:"player_id"`
	StartYear  int             `gorm:"not null" json:"start_year"`
	EndYear    int             `gorm:"not null" json:"end_year"`
	Aav        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"aav"`
	Guaranteed decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"guaranteed"`
	Status     string          `gorm:"size:16;not null" json:"status"`
}

const (
	ContractStatusActive  = "Active"
	ContractStatusExpired = "Expired"
	ContractStatusBuyout  = "Buyout"
)

// RosterEntry is the payroll view joining players with their active
// contract.
type RosterEntry struct {
	Player   Player          `json:"player"`
	Contract *PlayerContract `json:"contract"`
}

func GetRoster(ctx context.Context) ([]*RosterEntry, error) {
	db := config.GetDB()

	var players []Player
	if err := db.WithContext(ctx).Where("active = ?", true).
		Order("overall DESC, name").Find(&players).Error; err != nil {
		return nil, err
	}

	var contracts []PlayerContract
	if err := db.WithContext(ctx).Where("status = ?", ContractStatusActive).
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	byPlayer := make(map[int]*PlayerContract, len(contracts))
	for i := range contracts {
		byPlayer[contracts[i].PlayerId] = &contracts[i]
	}

	roster := make([]*RosterEntry, 0, len(players))
	for i := range players {
		roster = append(roster, &RosterEntry{
			Player:   players[i],
			Contract: byPlayer[players[i].ID],
		})
	}
	return roster, nil
}

// TotalPayroll sums AAV across active contracts.
func TotalPayroll(ctx context.Context) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.Decimal
	err := db.WithContext(ctx).Model(&PlayerContract{}).
		Where("status = ?", ContractStatusActive).
		Select("COALESCE(SUM(aav), 0)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
