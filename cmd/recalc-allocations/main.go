package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/models"
	"github.com/hooperp/franchise_backend/utils"
)

// Rebuilds allocated and packaging counters from open order lines.
// Useful after manual data fixes.
func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	ctx = utils.SetUsernameInContext(ctx, "RecalcAllocations")
	if err := models.RecalculateAllocations(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "recalculation failed: %v\n", err)
		os.Exit(1)
	}

	items, err := models.GetMerchItems(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list items: %v\n", err)
		os.Exit(1)
	}
	for _, item := range items {
		fmt.Printf("%-18s allocated=%-4d packaging=%-4d available=%d\n",
			item.Sku, item.AllocatedStock, item.PackagingStock, item.Available())
	}
}
