package models_test

import (
	"testing"

	"github.com/hooperp/franchise_backend/config"
	"github.com/hooperp/franchise_backend/models"
	"github.com/shopspring/decimal"
)

func createTestGame(t *testing.T, opponent string, week int) *models.Game {
	t.Helper()
	game := models.Game{Opponent: opponent, GameWeek: week, Venue: "Home Arena"}
	if err := config.GetDB().Create(&game).Error; err != nil {
		t.Fatalf("create game: %v", err)
	}
	return &game
}

func TestUpdateGameAttendanceRatchet(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(2)
	game := createTestGame(t, "Lakers", 3)

	sales, err := models.UpdateGameAttendance(ctx, game.ID, 40)
	if err != nil {
		t.Fatalf("UpdateGameAttendance: %v", err)
	}
	if sales.AttendancePercentage != 40 {
		t.Fatalf("expected 40, got %v", sales.AttendancePercentage)
	}

	// A lower request cannot undercut the previous attendance.
	sales, err = models.UpdateGameAttendance(ctx, game.ID, 30)
	if err != nil {
		t.Fatalf("UpdateGameAttendance lower: %v", err)
	}
	if sales.AttendancePercentage != 40 {
		t.Fatalf("ratchet broken: expected 40, got %v", sales.AttendancePercentage)
	}

	sales, err = models.UpdateGameAttendance(ctx, game.ID, 60)
	if err != nil {
		t.Fatalf("UpdateGameAttendance higher: %v", err)
	}
	if sales.AttendancePercentage != 60 {
		t.Fatalf("expected 60, got %v", sales.AttendancePercentage)
	}

	sales, err = models.UpdateGameAttendance(ctx, game.ID, 250)
	if err != nil {
		t.Fatalf("UpdateGameAttendance clamp: %v", err)
	}
	if sales.AttendancePercentage != 100 {
		t.Fatalf("expected clamp to 100, got %v", sales.AttendancePercentage)
	}

	// One state row per game, one weekly snapshot for this week.
	var stateCount, weeklyCount int64
	if err := config.GetDB().Model(&models.GameTicketSales{}).Count(&stateCount).Error; err != nil {
		t.Fatalf("count state rows: %v", err)
	}
	if err := config.GetDB().Model(&models.GameWeeklyAttendance{}).Count(&weeklyCount).Error; err != nil {
		t.Fatalf("count weekly rows: %v", err)
	}
	if stateCount != 1 || weeklyCount != 1 {
		t.Fatalf("expected 1 state and 1 weekly row, got %d/%d", stateCount, weeklyCount)
	}
}

func TestUpdateGameAttendanceClosedGameNoOp(t *testing.T) {
	resetTables(t)
	game := createTestGame(t, "Warriors", 3)

	// One full week after the game week the window is closed.
	sales, err := models.UpdateGameAttendance(weekCtx(4), game.ID, 80)
	if err != nil {
		t.Fatalf("UpdateGameAttendance: %v", err)
	}
	if sales != nil {
		t.Fatalf("expected silent no-op, got %+v", sales)
	}

	// Unknown game id is also silent.
	sales, err = models.UpdateGameAttendance(weekCtx(2), 99999, 80)
	if err != nil || sales != nil {
		t.Fatalf("expected silent no-op, got %+v err=%v", sales, err)
	}
}

func TestFinalizeTicketWeekLocksFloorsAndRecordsRevenue(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(3)
	lakers := createTestGame(t, "Lakers", 3)
	celtics := createTestGame(t, "Celtics", 4)

	if _, err := models.UpdateGameAttendance(ctx, lakers.ID, 50); err != nil {
		t.Fatalf("attendance lakers: %v", err)
	}
	if _, err := models.UpdateGameAttendance(ctx, celtics.ID, 20); err != nil {
		t.Fatalf("attendance celtics: %v", err)
	}

	result, err := models.FinalizeTicketWeek(ctx, 3)
	if err != nil {
		t.Fatalf("FinalizeTicketWeek: %v", err)
	}
	if result.WeekLabel != "Week 3" {
		t.Fatalf("expected label Week 3, got %s", result.WeekLabel)
	}
	// Only week-3 games count: 50% of 10000 seats at $75.
	if !result.Revenue.Equal(decimal.NewFromInt(375000)) {
		t.Fatalf("expected 375000, got %s", result.Revenue)
	}

	// Finalize locks every game's floor, week-4 game included.
	var celticsSales models.GameTicketSales
	if err := config.GetDB().Where("game_id = ?", celtics.ID).First(&celticsSales).Error; err != nil {
		t.Fatalf("fetch celtics sales: %v", err)
	}
	if celticsSales.LockedAttendancePercentage != 20 {
		t.Fatalf("expected locked floor 20, got %v", celticsSales.LockedAttendancePercentage)
	}

	// Re-finalizing upserts the same week row.
	if _, err := models.FinalizeTicketWeek(ctx, 3); err != nil {
		t.Fatalf("re-finalize: %v", err)
	}
	var weekCount int64
	if err := config.GetDB().Model(&models.TicketWeekRevenue{}).Count(&weekCount).Error; err != nil {
		t.Fatalf("count week rows: %v", err)
	}
	if weekCount != 1 {
		t.Fatalf("expected 1 week revenue row, got %d", weekCount)
	}
}

func TestGetTicketGamesSummaries(t *testing.T) {
	resetTables(t)
	ctx := weekCtx(4)
	lakers := createTestGame(t, "Lakers", 3)
	createTestGame(t, "Bulls", 5)

	if err := config.GetDB().Create(&models.GameTicketSales{
		GameId:               lakers.ID,
		AttendancePercentage: 60,
	}).Error; err != nil {
		t.Fatalf("seed sales: %v", err)
	}

	games, err := models.GetTicketGames(ctx)
	if err != nil {
		t.Fatalf("GetTicketGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}

	closed := games[0]
	if closed.Opponent != "Lakers" || !closed.IsClosed {
		t.Fatalf("expected Lakers closed at week 4, got %+v", closed)
	}
	if closed.SoldSeats != 6000 {
		t.Fatalf("expected 6000 sold seats, got %d", closed.SoldSeats)
	}
	if !closed.RealizedRevenue.Equal(decimal.NewFromInt(450000)) {
		t.Fatalf("expected 450000 realized, got %s", closed.RealizedRevenue)
	}
	if !closed.ArenaOperationsCost.Equal(decimal.NewFromInt(125000)) {
		t.Fatalf("closed game carries arena cost, got %s", closed.ArenaOperationsCost)
	}

	open := games[1]
	if open.IsClosed {
		t.Fatal("week-5 game must be open at week 4")
	}
	if !open.ArenaOperationsCost.IsZero() {
		t.Fatalf("open game carries no arena cost, got %s", open.ArenaOperationsCost)
	}
}
