package models

import "github.com/shopspring/decimal"

// Sales order financial status.
const (
	OrderStatusInventoryReserved = "Successful - Inventory Reserved"
	OrderStatusBackorder         = "Backorder"
	OrderStatusCancelled         = "Cancelled"
)

// Sales order workflow stage, forward-only.
const (
	StageAwaitingApproval = "Awaiting Warehouse Approval"
	StagePackaging        = "Packaging"
	StageShipped          = "Shipped"
	StageDelivered        = "Delivered"
)

const (
	ProcurementStatusOpen   = "Open"
	ProcurementStatusClosed = "Closed"
)

const (
	ShipmentStatusReceived       = "Received from Inventory"
	ShipmentStatusOutForDelivery = "Out for Delivery"
	ShipmentStatusDelivered      = "Delivered"
)

const (
	InvoiceStatusUnpaid  = "Unpaid"
	InvoiceStatusPaid    = "Paid"
	InvoiceStatusOverdue = "Overdue"
)

const (
	AccountTypeAsset     = "Asset"
	AccountTypeLiability = "Liability"
	AccountTypeEquity    = "Equity"
	AccountTypeRevenue   = "Revenue"
	AccountTypeExpense   = "Expense"
)

// Chart of account codes referenced by the posting and snapshot paths.
const (
	AccountCodeCash      = "1000"
	AccountCodeAR        = "1100"
	AccountCodeInventory = "1200"
	AccountCodeAP        = "2000"
	AccountCodeEquity    = "3000"
	AccountCodeTicketRev = "4000"
	AccountCodeMerchRev  = "4010"
	AccountCodeCOGS      = "5000"
	AccountCodeArenaOps  = "5200"
)

const ReferenceTypeSalesOrder = "sales_order"

// Merchandising rules.
const (
	MinimumOrderQuantity = 5
	ReorderQuantityFloor = 25
	ReorderLeadTimeWeeks = 1
	InvoiceDueWeeks      = 2
)

// Arena constants.
const (
	ArenaTotalSeats = 10000
)

var (
	AverageTicketPrice  = decimal.NewFromInt(75)
	ArenaOpsCostPerGame = decimal.NewFromInt(125000)
)

var workflowStageOrder = map[string]int{
	StageAwaitingApproval: 0,
	StagePackaging:        1,
	StageShipped:          2,
	StageDelivered:        3,
}

func validWorkflowStage(stage string) bool {
	_, ok := workflowStageOrder[stage]
	return ok
}

func validOrderStatus(status string) bool {
	switch status {
	case OrderStatusInventoryReserved, OrderStatusBackorder, OrderStatusCancelled:
		return true
	}
	return false
}
