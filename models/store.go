package models

import (
	"context"
	"time"

	"github.com/hooperp/franchise_backend/utils"
)

// RetailStore is a merchandise destination (team shop, partner outlet).
type RetailStore struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Tier         string    `gorm:"size:32" json:"tier"`
	ContactName  string    `gorm:"size:255" json:"contact_name"`
	ContactEmail string    `gorm:"size:255" json:"contact_email"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetRetailStore(ctx context.Context, id int) (*RetailStore, error) {
	return utils.FetchModel[RetailStore](ctx, id)
}

func GetRetailStores(ctx context.Context) ([]*RetailStore, error) {
	return utils.FetchAllModels[RetailStore](ctx)
}
