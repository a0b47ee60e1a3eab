package models

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/utils"
)

const schemaVersion = 1

// Timeline is the single-row simulated clock. Weeks are integers in
// [1, MaxWeek]; the "Week N" label is formatted at the boundary only.
type Timeline struct {
	ID            int       `gorm:"primary_key" json:"id"`
	CurrentWeek   int       `gorm:"not null;default:1" json:"current_week"`
	MaxWeek       int       `gorm:"not null;default:5" json:"max_week"`
	SchemaVersion int       `gorm:"not null;default:1" json:"schema_version"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func defaultMaxWeek() int {
	if v := os.Getenv("MAX_WEEK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 5
}

// GetTimeline reads the clock row, creating it at week 1 if absent.
func GetTimeline(ctx context.Context) (*Timeline, error) {
	db := config.GetDB()

	var timeline Timeline
	err := db.WithContext(ctx).First(&timeline).Error
	if err == nil {
		return &timeline, nil
	}

	timeline = Timeline{
		CurrentWeek:   1,
		MaxWeek:       defaultMaxWeek(),
		SchemaVersion: schemaVersion,
	}
	if err := db.WithContext(ctx).Create(&timeline).Error; err != nil {
		return nil, err
	}
	return &timeline, nil
}

// CurrentWeek resolves the simulated week: context value if the timeline
// middleware (or a test) set one, otherwise the timelines row.
func CurrentWeek(ctx context.Context) (int, error) {
	if week, ok := utils.GetCurrentWeekFromContext(ctx); ok {
		return week, nil
	}
	timeline, err := GetTimeline(ctx)
	if err != nil {
		return 0, err
	}
	return timeline.CurrentWeek, nil
}

// AdvanceWeek moves the clock forward one week, capped at MaxWeek.
func AdvanceWeek(ctx context.Context) (*Timeline, error) {
	timeline, err := GetTimeline(ctx)
	if err != nil {
		return nil, err
	}
	if timeline.CurrentWeek >= timeline.MaxWeek {
		return nil, errors.New("season is over, cannot advance past " + utils.FormatWeekLabel(timeline.MaxWeek))
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(timeline).
		Update("current_week", timeline.CurrentWeek+1).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	timeline.CurrentWeek++
	return timeline, nil
}

// ResetTimeline puts the clock back to week 1 (maintenance tooling).
func ResetTimeline(ctx context.Context) error {
	timeline, err := GetTimeline(ctx)
	if err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Model(timeline).Update("current_week", 1).Error
}
