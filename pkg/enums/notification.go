package enums

import "fmt"

// NotificationEventType classifies entries in the notification activity feed.
type NotificationEventType string

const (
	NotificationEventNewOrder      NotificationEventType = "new_order"
	NotificationEventStatusChanged NotificationEventType = "status_changed"
	NotificationEventLowStock      NotificationEventType = "low_stock"
	NotificationEventDailySummary  NotificationEventType = "daily_summary"
	NotificationEventSystemAlert   NotificationEventType = "system_alert"
)

var validNotificationEventTypes = []NotificationEventType{
	NotificationEventNewOrder,
	NotificationEventStatusChanged,
	NotificationEventLowStock,
	NotificationEventDailySummary,
	NotificationEventSystemAlert,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationEventType) IsValid() bool {
	for _, candidate := range validNotificationEventTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationEventType converts raw strings into NotificationEventType.
func ParseNotificationEventType(value string) (NotificationEventType, error) {
	for _, candidate := range validNotificationEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification event type %q", value)
}

// NotificationStatus records the delivery outcome for an activity entry.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

var validNotificationStatuses = []NotificationStatus{
	NotificationStatusPending,
	NotificationStatusSent,
	NotificationStatusFailed,
}

// IsValid reports whether the value is a known NotificationStatus.
func (n NotificationStatus) IsValid() bool {
	for _, candidate := range validNotificationStatuses {
		if candidate == n {
			return true
		}
	}
	return false
}
