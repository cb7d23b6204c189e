package outbox

import (
	"github.com/google/uuid"
)

// OrderCreatedData is the event body for order_created.
type OrderCreatedData struct {
	OrderID      uuid.UUID  `json:"orderId"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	Quantity     int        `json:"quantity"`
	Translation  string     `json:"translation"`
	EditionID    *uuid.UUID `json:"editionId,omitempty"`
	EditionTitle string     `json:"editionTitle,omitempty"`
}

// OrderStatusChangedData is the event body for order_status_changed.
type OrderStatusChangedData struct {
	OrderID   uuid.UUID `json:"orderId"`
	FullName  string    `json:"fullName"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

// StockLowData is the event body for stock_low.
type StockLowData struct {
	EditionID uuid.UUID `json:"editionId"`
	Title     string    `json:"title"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
}

// DailySummaryData is the event body for daily_summary_ready.
type DailySummaryData struct {
	Date            string `json:"date"`
	OrdersPlaced    int64  `json:"ordersPlaced"`
	OrdersDelivered int64  `json:"ordersDelivered"`
	PendingOrders   int64  `json:"pendingOrders"`
	CopiesRequested int64  `json:"copiesRequested"`
}
