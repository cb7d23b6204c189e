package analytics

import (
	"time"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
)

// Granularity selects the bucket size for the orders-over-time series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// IsValid reports whether the value is a known Granularity.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return true
	}
	return false
}

// Totals are the headline counters on the dashboard.
type Totals struct {
	TotalOrders       int64 `json:"total_orders"`
	CopiesDistributed int64 `json:"copies_distributed"`
	CountriesServed   int64 `json:"countries_served"`
	StockRemaining    int64 `json:"stock_remaining"`
}

// TimeBucket is one point in the orders-over-time series.
type TimeBucket struct {
	Period string `json:"period"`
	Orders int64  `json:"orders"`
	Copies int64  `json:"copies"`
}

// CountryCount ranks a country code by order volume.
type CountryCount struct {
	CountryCode string `json:"country_code"`
	Orders      int64  `json:"orders"`
}

// TranslationStock aggregates remaining stock per translation.
type TranslationStock struct {
	Translation string `json:"translation"`
	Editions    int64  `json:"editions"`
	Stock       int64  `json:"stock"`
}

// Dashboard is the full admin dashboard payload.
type Dashboard struct {
	Totals          Totals                      `json:"totals"`
	StatusCounts    map[enums.OrderStatus]int64 `json:"status_counts"`
	OrdersOverTime  []TimeBucket                `json:"orders_over_time"`
	TopCountries    []CountryCount              `json:"top_countries"`
	StockPerEdition []TranslationStock          `json:"stock_per_translation"`
	RecentOrders    []models.Order              `json:"recent_orders"`
	LowStock        []models.Edition            `json:"low_stock"`
}

// DashboardParams bounds the dashboard query.
type DashboardParams struct {
	Granularity Granularity
	From        time.Time
	To          time.Time
}

// DailySummary aggregates one calendar day of activity.
type DailySummary struct {
	Date            string `json:"date"`
	OrdersPlaced    int64  `json:"orders_placed"`
	OrdersDelivered int64  `json:"orders_delivered"`
	PendingOrders   int64  `json:"pending_orders"`
	CopiesRequested int64  `json:"copies_requested"`
}
