package models

import (
	"log"

	"github.com/hooperp/franchise_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Timeline{},
		&RetailStore{}, &MerchItem{},
		&SalesOrder{}, &SalesOrderLine{},
		&ProcurementOrder{}, &ProcurementRequest{},
		&Shipment{}, &MerchInvoice{},
		&Account{}, &JournalEntry{}, &JournalLine{},
		&Game{}, &GameTicketSales{}, &GameWeeklyAttendance{}, &TicketWeekRevenue{},
		&Player{}, &PlayerContract{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
