package models

import (
	"context"
	"math"
	"time"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Game struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Opponent  string    `gorm:"size:255;not null" json:"opponent"`
	GameWeek  int       `gorm:"index;not null" json:"game_week"`
	Venue     string    `gorm:"size:255" json:"venue"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// GameTicketSales is the per-game attendance state. Attendance is a
// ratchet: the locked floor only rises, via the weekly finalize.
type GameTicketSales struct {
	ID                         int     `gorm:"primary_key" json:"id"`
	GameId                     int     `gorm:"uniqueIndex;not null" json:"game_id"`
	AttendancePercentage       float64 `gorm:"not null;default:0" json:"attendance_percentage"`
	LockedAttendancePercentage float64 `gorm:"not null;default:0" json:"locked_attendance_percentage"`
	LastUpdatedWeek            int     `gorm:"not null;default:0" json:"last_updated_week"`
}

// GameWeeklyAttendance is the per-(game, week) snapshot. Updates within
// the same week overwrite that week's row.
type GameWeeklyAttendance struct {
	ID                   int     `gorm:"primary_key" json:"id"`
	GameId               int     `gorm:"not null;uniqueIndex:idx_game_week" json:"game_id"`
	Week                 int     `gorm:"not null;uniqueIndex:idx_game_week" json:"week"`
	AttendancePercentage float64 `gorm:"not null;default:0" json:"attendance_percentage"`
}

// TicketWeekRevenue is the week-indexed realized revenue ledger,
// idempotent upsert by week.
type TicketWeekRevenue struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Week        int             `gorm:"uniqueIndex;not null" json:"week"`
	Revenue     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"revenue"`
	FinalizedAt time.Time       `gorm:"autoUpdateTime" json:"finalized_at"`
}

type TicketGameSummary struct {
	ID                   int             `json:"id"`
	Opponent             string          `json:"opponent"`
	GameWeek             int             `json:"game_week"`
	WeekLabel            string          `json:"week_label"`
	Venue                string          `json:"venue"`
	TotalSeats           int             `json:"total_seats"`
	AttendancePercentage float64         `json:"attendance_percentage"`
	SoldSeats            int             `json:"sold_seats"`
	AverageTicketPrice   decimal.Decimal `json:"average_ticket_price"`
	PotentialRevenue     decimal.Decimal `json:"potential_revenue"`
	RealizedRevenue      decimal.Decimal `json:"realized_revenue"`
	LockedFloor          float64         `json:"locked_floor"`
	IsClosed             bool            `json:"is_closed"`
	ArenaOperationsCost  decimal.Decimal `json:"arena_operations_cost"`
}

type TicketWeekResult struct {
	WeekLabel string          `json:"week_label"`
	Revenue   decimal.Decimal `json:"revenue"`
}

func clampPercentage(pct float64) float64 {
	if pct < 0 || math.IsNaN(pct) {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func soldSeats(pct float64) int {
	return int(math.Round(pct / 100 * ArenaTotalSeats))
}

func realizedRevenue(pct float64) decimal.Decimal {
	return AverageTicketPrice.Mul(decimal.NewFromInt(int64(soldSeats(pct))))
}

// gameClosed reports whether a game's ticket sales have closed
// permanently: one full week after the game week.
func gameClosed(gameWeek, currentWeek int) bool {
	return currentWeek >= gameWeek+1
}

// UpdateGameAttendance applies an attendance update to an open game. The
// effective value is clamped by the ratchet: never below the locked floor
// or the previous attendance, never above 100. Writes the game state row
// and upserts the current week's snapshot. Closed games and unknown ids
// are silent no-ops.
func UpdateGameAttendance(ctx context.Context, gameId int, pct float64) (*GameTicketSales, error) {
	db := config.GetDB()

	var game Game
	if err := db.WithContext(ctx).First(&game, gameId).Error; err != nil {
		return nil, nil
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}
	if gameClosed(game.GameWeek, week) {
		return nil, nil
	}

	var sales GameTicketSales
	if err := db.WithContext(ctx).Where("game_id = ?", gameId).First(&sales).Error; err != nil {
		sales = GameTicketSales{GameId: gameId}
	}

	previousAttendance := clampPercentage(sales.AttendancePercentage)
	lockedAttendance := clampPercentage(sales.LockedAttendancePercentage)

	lockedFloor := lockedAttendance
	if previousAttendance > lockedFloor {
		lockedFloor = previousAttendance
	}
	effective := clampPercentage(pct)
	if effective < lockedFloor {
		effective = lockedFloor
	}

	sales.AttendancePercentage = effective
	sales.LockedAttendancePercentage = lockedAttendance
	sales.LastUpdatedWeek = week

	tx := db.Begin()
	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"attendance_percentage", "locked_attendance_percentage", "last_updated_week",
		}),
	}).Create(&sales).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	weekly := GameWeeklyAttendance{
		GameId:               gameId,
		Week:                 week,
		AttendancePercentage: effective,
	}
	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "week"}},
		DoUpdates: clause.AssignmentColumns([]string{"attendance_percentage"}),
	}).Create(&weekly).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &sales, nil
}

// FinalizeTicketWeek locks every game's floor to its current attendance
// and records the week's aggregate realized revenue (upsert by week, so
// re-finalizing a week is idempotent).
func FinalizeTicketWeek(ctx context.Context, week int) (*TicketWeekResult, error) {
	if week < 1 {
		week = 1
	}

	games, err := GetTicketGames(ctx)
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for _, game := range games {
		if game.GameWeek == week {
			revenue = revenue.Add(game.RealizedRevenue)
		}
	}

	db := config.GetDB()
	tx := db.Begin()
	record := TicketWeekRevenue{Week: week, Revenue: revenue}
	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "week"}},
		DoUpdates: clause.AssignmentColumns([]string{"revenue", "finalized_at"}),
	}).Create(&record).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Model(&GameTicketSales{}).Where("1 = 1").
		Update("locked_attendance_percentage", gorm.Expr(`
CASE WHEN attendance_percentage > locked_attendance_percentage
THEN attendance_percentage ELSE locked_attendance_percentage END`)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &TicketWeekResult{
		WeekLabel: utils.FormatWeekLabel(week),
		Revenue:   revenue,
	}, nil
}

// GetTicketGames joins games with their attendance state into the
// summary the dashboard and snapshot consume.
func GetTicketGames(ctx context.Context) ([]*TicketGameSummary, error) {
	db := config.GetDB()

	var games []Game
	if err := db.WithContext(ctx).Order("game_week, id").Find(&games).Error; err != nil {
		return nil, err
	}
	var sales []GameTicketSales
	if err := db.WithContext(ctx).Find(&sales).Error; err != nil {
		return nil, err
	}
	salesByGame := make(map[int]*GameTicketSales, len(sales))
	for i := range sales {
		salesByGame[sales[i].GameId] = &sales[i]
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*TicketGameSummary, 0, len(games))
	potential := AverageTicketPrice.Mul(decimal.NewFromInt(ArenaTotalSeats))
	for i := range games {
		game := &games[i]
		attendance := 0.0
		locked := 0.0
		if s, ok := salesByGame[game.ID]; ok {
			attendance = clampPercentage(s.AttendancePercentage)
			locked = clampPercentage(s.LockedAttendancePercentage)
		}
		if locked > attendance {
			locked = attendance
		}
		closed := gameClosed(game.GameWeek, week)
		arenaCost := decimal.Zero
		if closed {
			arenaCost = ArenaOpsCostPerGame
		}
		summaries = append(summaries, &TicketGameSummary{
			ID:                   game.ID,
			Opponent:             game.Opponent,
			GameWeek:             game.GameWeek,
			WeekLabel:            utils.FormatWeekLabel(game.GameWeek),
			Venue:                game.Venue,
			TotalSeats:           ArenaTotalSeats,
			AttendancePercentage: attendance,
			SoldSeats:            soldSeats(attendance),
			AverageTicketPrice:   AverageTicketPrice,
			PotentialRevenue:     potential,
			RealizedRevenue:      realizedRevenue(attendance),
			LockedFloor:          locked,
			IsClosed:             closed,
			ArenaOperationsCost:  arenaCost,
		})
	}
	return summaries, nil
}

func GetGameWeeklyAttendance(ctx context.Context) ([]*GameWeeklyAttendance, error) {
	db := config.GetDB()
	var rows []*GameWeeklyAttendance
	if err := db.WithContext(ctx).Order("game_id, week").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func GetTicketWeekRevenues(ctx context.Context) ([]*TicketWeekRevenue, error) {
	db := config.GetDB()
	var rows []*TicketWeekRevenue
	if err := db.WithContext(ctx).Order("week").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
