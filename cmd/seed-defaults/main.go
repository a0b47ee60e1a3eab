package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/models"
	"github.com/hooperp/franchise_backend/utils"
)

func main() {
	resetTimeline := flag.Bool("reset-timeline", false, "Reset the season clock back to week 1")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	models.MigrateTable()

	ctx = utils.SetUsernameInContext(ctx, "SeedDefaults")
	if err := models.SeedDefaults(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "seeding failed: %v\n", err)
		os.Exit(1)
	}
	if *resetTimeline {
		if err := models.ResetTimeline(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "timeline reset failed: %v\n", err)
			os.Exit(1)
		}
	}

	timeline, err := models.GetTimeline(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load timeline: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seed complete; season clock at %s of %d\n",
		utils.FormatWeekLabel(timeline.CurrentWeek), timeline.MaxWeek)
}
