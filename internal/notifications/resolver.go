package notifications

import (
	"encoding/json"
	"fmt"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/outbox"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/webhook"
)

// Embed colors in Discord's integer RGB format.
const (
	colorGreen  = 0x2ECC71
	colorBlue   = 0x3498DB
	colorOrange = 0xE67E22
	colorPurple = 0x9B59B6
)

// Resolved is an outbox event rendered into deliverable notification content.
type Resolved struct {
	EventType enums.NotificationEventType
	Message   webhook.Message
	Metadata  json.RawMessage
}

// Resolve renders an outbox event into a webhook message and activity entry.
func Resolve(event models.OutboxEvent) (*Resolved, error) {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode event envelope")
	}

	switch event.EventType {
	case enums.EventOrderCreated:
		return resolveOrderCreated(envelope)
	case enums.EventOrderStatusChanged:
		return resolveStatusChanged(envelope)
	case enums.EventStockLow:
		return resolveStockLow(envelope)
	case enums.EventDailySummaryReady:
		return resolveDailySummary(envelope)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal,
			fmt.Sprintf("no notification mapping for event type %q", event.EventType))
	}
}

func resolveOrderCreated(envelope outbox.PayloadEnvelope) (*Resolved, error) {
	var data outbox.OrderCreatedData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order_created data")
	}

	edition := data.EditionTitle
	if edition == "" {
		edition = "any available edition"
	}

	return &Resolved{
		EventType: enums.NotificationEventNewOrder,
		Metadata:  envelope.Data,
		Message: webhook.Message{
			Title:       "New Quran Order",
			Description: fmt.Sprintf("%s requested %d cop%s.", data.FullName, data.Quantity, pluralIes(data.Quantity)),
			Color:       colorGreen,
			Timestamp:   envelope.OccurredAt,
			Fields: []webhook.Field{
				{Name: "Edition", Value: edition, Inline: true},
				{Name: "Translation", Value: data.Translation, Inline: true},
				{Name: "Location", Value: fmt.Sprintf("%s, %s", data.City, data.State), Inline: true},
			},
		},
	}, nil
}

func resolveStatusChanged(envelope outbox.PayloadEnvelope) (*Resolved, error) {
	var data outbox.OrderStatusChangedData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order_status_changed data")
	}

	return &Resolved{
		EventType: enums.NotificationEventStatusChanged,
		Metadata:  envelope.Data,
		Message: webhook.Message{
			Title:       "Order Status Updated",
			Description: fmt.Sprintf("Order for %s moved from %s to %s.", data.FullName, data.OldStatus, data.NewStatus),
			Color:       colorBlue,
			Timestamp:   envelope.OccurredAt,
			Fields: []webhook.Field{
				{Name: "Order", Value: data.OrderID.String(), Inline: true},
				{Name: "Status", Value: data.NewStatus, Inline: true},
			},
		},
	}, nil
}

func resolveStockLow(envelope outbox.PayloadEnvelope) (*Resolved, error) {
	var data outbox.StockLowData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode stock_low data")
	}

	return &Resolved{
		EventType: enums.NotificationEventLowStock,
		Metadata:  envelope.Data,
		Message: webhook.Message{
			Title:       "Low Stock Alert",
			Description: fmt.Sprintf("%q is down to %d cop%s.", data.Title, data.Stock, pluralIes(data.Stock)),
			Color:       colorOrange,
			Timestamp:   envelope.OccurredAt,
			Fields: []webhook.Field{
				{Name: "Remaining", Value: fmt.Sprintf("%d", data.Stock), Inline: true},
				{Name: "Threshold", Value: fmt.Sprintf("%d", data.Threshold), Inline: true},
			},
		},
	}, nil
}

func resolveDailySummary(envelope outbox.PayloadEnvelope) (*Resolved, error) {
	var data outbox.DailySummaryData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode daily_summary data")
	}

	return &Resolved{
		EventType: enums.NotificationEventDailySummary,
		Metadata:  envelope.Data,
		Message: webhook.Message{
			Title:       fmt.Sprintf("Daily Summary for %s", data.Date),
			Description: "Distribution activity for the day.",
			Color:       colorPurple,
			Timestamp:   envelope.OccurredAt,
			Fields: []webhook.Field{
				{Name: "Orders Placed", Value: fmt.Sprintf("%d", data.OrdersPlaced), Inline: true},
				{Name: "Orders Delivered", Value: fmt.Sprintf("%d", data.OrdersDelivered), Inline: true},
				{Name: "Pending Orders", Value: fmt.Sprintf("%d", data.PendingOrders), Inline: true},
				{Name: "Copies Requested", Value: fmt.Sprintf("%d", data.CopiesRequested), Inline: true},
			},
		},
	}, nil
}

func pluralIes(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
