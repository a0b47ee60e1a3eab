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
	weeks := flag.Int("weeks", 1, "Number of weeks to advance")
	finalize := flag.Bool("finalize", true, "Finalize ticket revenue for each week passed")
	flag.Parse()

	if *weeks <= 0 {
		fmt.Fprintln(os.Stderr, "--weeks must be positive")
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	ctx = utils.SetUsernameInContext(ctx, "AdvanceWeek")
	for i := 0; i < *weeks; i++ {
		before, err := models.GetTimeline(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load timeline: %v\n", err)
			os.Exit(1)
		}
		timeline, err := models.AdvanceWeek(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "advance failed: %v\n", err)
			os.Exit(1)
		}
		if *finalize {
			result, err := models.FinalizeTicketWeek(ctx, before.CurrentWeek)
			if err != nil {
				fmt.Fprintf(os.Stderr, "finalize failed for %s: %v\n",
					utils.FormatWeekLabel(before.CurrentWeek), err)
				os.Exit(1)
			}
			fmt.Printf("finalized %s ticket revenue: %s\n", result.WeekLabel, result.Revenue.StringFixed(2))
		}
		fmt.Printf("season clock now at %s\n", utils.FormatWeekLabel(timeline.CurrentWeek))
	}
}
