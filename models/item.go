package models

import (
	"context"
	"time"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/utils"
	"github.com/shopspring/decimal"
)

// MerchItem is a stocked merchandise SKU. AllocatedStock and
// PackagingStock are owned by the allocation recompute and must never be
// written by any other path.
type MerchItem struct {
	ID                int             `gorm:"primary_key" json:"id"`
	Sku               string          `gorm:"size:64;uniqueIndex;not null" json:"sku" binding:"required"`
	Name              string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Category          string          `gorm:"size:255" json:"category"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	SellPrice         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sell_price"`
	CurrentStock      int             `gorm:"not null;default:0" json:"current_stock"`
	ReorderLevel      int             `gorm:"not null;default:0" json:"reorder_level"`
	MinInventoryLevel int             `gorm:"not null;default:0" json:"min_inventory_level"`
	AllocatedStock    int             `gorm:"not null;default:0" json:"allocated_stock"`
	PackagingStock    int             `gorm:"not null;default:0" json:"packaging_stock"`
	IncomingStock     int             `gorm:"not null;default:0" json:"incoming_stock"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Available is stock on hand not claimed by reserved or packaging orders.
func (i *MerchItem) Available() int {
	available := i.CurrentStock - i.AllocatedStock - i.PackagingStock
	if available < 0 {
		return 0
	}
	return available
}

// Projected adds supply already on order.
func (i *MerchItem) Projected() int {
	return i.Available() + i.IncomingStock
}

func GetMerchItem(ctx context.Context, id int) (*MerchItem, error) {
	return utils.FetchModel[MerchItem](ctx, id)
}

func GetMerchItems(ctx context.Context) ([]*MerchItem, error) {
	db := config.GetDB()
	var items []*MerchItem
	if err := db.WithContext(ctx).Order("sku").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItemMinimumLevel sets the manual-replenishment threshold. The
// stored value is clamped to [reorder_level + 5, 300]. Unknown ids are a
// silent no-op.
func UpdateItemMinimumLevel(ctx context.Context, itemId int, minimumLevel int) (*MerchItem, error) {
	db := config.GetDB()

	var item MerchItem
	if err := db.WithContext(ctx).First(&item, itemId).Error; err != nil {
		return nil, nil
	}

	lowerBound := item.ReorderLevel + 5
	if lowerBound < 0 {
		lowerBound = 0
	}
	if lowerBound > 300 {
		lowerBound = 300
	}
	normalized := minimumLevel
	if normalized < lowerBound {
		normalized = lowerBound
	}
	if normalized > 300 {
		normalized = 300
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&item).
		Update("min_inventory_level", normalized).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	item.MinInventoryLevel = normalized
	return &item, nil
}
