package reports

import (
	"context"
	"fmt"
	"io"

	"github.com/hooperp/franchise_backend/models"
	"github.com/xuri/excelize/v2"
)

// WriteSnapshotExcel renders the accounting snapshot as a workbook:
// summary figures, recent merchandise orders, ticket games.
func WriteSnapshotExcel(ctx context.Context, w io.Writer) error {

	snapshot, err := models.GetSnapshot(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	// Summary block
	f.SetCellValue(sheet, "A1", "Measure")
	f.SetCellValue(sheet, "B1", "Amount")
	summary := []struct {
		label string
		value string
	}{
		{"Total Revenue", snapshot.TotalRevenue.StringFixed(2)},
		{"Total Expenses", snapshot.TotalExpenses.StringFixed(2)},
		{"Net Profit", snapshot.NetProfit.StringFixed(2)},
		{"Merchandise Revenue", snapshot.MerchandiseRevenue.StringFixed(2)},
		{"Ticket Revenue", snapshot.TicketRevenue.StringFixed(2)},
		{"Merchandise COGS", snapshot.MerchandiseCost.StringFixed(2)},
		{"Arena Operations Expense", snapshot.ArenaOperationsExpense.StringFixed(2)},
		{"Arena Operations Accrual", snapshot.ArenaOperationsAccrual.StringFixed(2)},
		{"Other Expenses", snapshot.OtherExpenses.StringFixed(2)},
	}
	for i, row := range summary {
		f.SetCellValue(sheet, "A"+fmt.Sprint(i+2), row.label)
		f.SetCellValue(sheet, "B"+fmt.Sprint(i+2), row.value)
	}

	// Recent orders
	base := len(summary) + 4
	f.SetCellValue(sheet, "A"+fmt.Sprint(base), "OrderCode")
	f.SetCellValue(sheet, "B"+fmt.Sprint(base), "Week")
	f.SetCellValue(sheet, "C"+fmt.Sprint(base), "Status")
	f.SetCellValue(sheet, "D"+fmt.Sprint(base), "TotalAmount")
	for i, order := range snapshot.MerchandiseOrders {
		row := fmt.Sprint(base + 1 + i)
		f.SetCellValue(sheet, "A"+row, order.OrderCode)
		f.SetCellValue(sheet, "B"+row, order.WeekLabel)
		f.SetCellValue(sheet, "C"+row, order.Status)
		f.SetCellValue(sheet, "D"+row, order.TotalAmount.StringFixed(2))
	}

	// Ticket games
	base = base + len(snapshot.MerchandiseOrders) + 3
	f.SetCellValue(sheet, "A"+fmt.Sprint(base), "Opponent")
	f.SetCellValue(sheet, "B"+fmt.Sprint(base), "Week")
	f.SetCellValue(sheet, "C"+fmt.Sprint(base), "Attendance")
	f.SetCellValue(sheet, "D"+fmt.Sprint(base), "RealizedRevenue")
	f.SetCellValue(sheet, "E"+fmt.Sprint(base), "Closed")
	for i, game := range snapshot.TicketGames {
		row := fmt.Sprint(base + 1 + i)
		f.SetCellValue(sheet, "A"+row, game.Opponent)
		f.SetCellValue(sheet, "B"+row, game.WeekLabel)
		f.SetCellValue(sheet, "C"+row, game.AttendancePercentage)
		f.SetCellValue(sheet, "D"+row, game.RealizedRevenue.StringFixed(2))
		f.SetCellValue(sheet, "E"+row, game.IsClosed)
	}

	return f.Write(w)
}
