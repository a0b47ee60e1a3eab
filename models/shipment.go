package models

import (
	"context"
	"time"

	"github.com/hooperp/franchise_backend/config"
	"gorm.io/gorm"
)

// Shipment is the single outbound delivery for a shipped order.
type Shipment struct {
	ID               int       `gorm:"primary_key" json:"id"`
	ShipmentCode     string    `gorm:"size:32;uniqueIndex;not null" json:"shipment_code"`
	SalesOrderId     int       `gorm:"index;not null" json:"sales_order_id"`
	StoreId          int       `gorm:"index;not null" json:"store_id"`
	Carrier          string    `gorm:"size:255" json:"carrier"`
	TrackingNumber   string    `gorm:"size:255" json:"tracking_number"`
	Status           string    `gorm:"size:64;not null" json:"status"`
	ExpectedDelivery int       `gorm:"not null" json:"expected_delivery"`
	ActualDelivery   *int      `json:"actual_delivery"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func validShipmentStatus(status string) bool {
	switch status {
	case ShipmentStatusReceived, ShipmentStatusOutForDelivery, ShipmentStatusDelivered:
		return true
	}
	return false
}

// UpdateShipmentStatus moves a shipment along its delivery lifecycle.
// Reaching Delivered cascades to the order: stage Delivered, status
// promoted unless Cancelled, unpaid invoices past due flipped to Overdue.
// Unknown ids and unchanged statuses are silent no-ops.
func UpdateShipmentStatus(ctx context.Context, id int, status string, actualDeliveryWeek *int) (*Shipment, error) {
	if !validShipmentStatus(status) {
		return nil, nil
	}

	db := config.GetDB()
	var shipment Shipment
	if err := db.WithContext(ctx).First(&shipment, id).Error; err != nil {
		return nil, nil
	}
	if shipment.Status == status {
		return &shipment, nil
	}

	week, err := CurrentWeek(ctx)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	updates := map[string]interface{}{"status": status}
	if actualDeliveryWeek != nil {
		updates["actual_delivery"] = *actualDeliveryWeek
	}
	if err := tx.WithContext(ctx).Model(&shipment).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if status == ShipmentStatusDelivered {
		if err := tx.WithContext(ctx).Model(&SalesOrder{}).
			Where("id = ?", shipment.SalesOrderId).
			Updates(map[string]interface{}{
				"workflow_stage": StageDelivered,
				"status": gorm.Expr("CASE WHEN status = ? THEN status ELSE ? END",
					OrderStatusCancelled, OrderStatusInventoryReserved),
			}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := deliverOrder(ctx, tx, shipment.SalesOrderId, week); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := recalcAllocations(ctx, tx); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	shipment.Status = status
	if actualDeliveryWeek != nil {
		shipment.ActualDelivery = actualDeliveryWeek
	}
	return &shipment, nil
}

func GetShipments(ctx context.Context) ([]*Shipment, error) {
	db := config.GetDB()
	var shipments []*Shipment
	if err := db.WithContext(ctx).
		Order("CASE WHEN status = 'Delivered' THEN 1 ELSE 0 END, expected_delivery").
		Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}
