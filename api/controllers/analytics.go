package controllers

import (
	"net/http"
	"time"

	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/analytics"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

// AnalyticsController serves the admin dashboard aggregates.
type AnalyticsController struct {
	service analytics.Service
	logg    *logger.Logger
}

func NewAnalyticsController(service analytics.Service, logg *logger.Logger) *AnalyticsController {
	return &AnalyticsController{service: service, logg: logg}
}

func (c *AnalyticsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := analytics.DashboardParams{
		Granularity: analytics.Granularity(r.URL.Query().Get("granularity")),
	}

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "from must be RFC3339"))
			return
		}
		params.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "to must be RFC3339"))
			return
		}
		params.To = to
	}

	dashboard, err := c.service.Dashboard(ctx, params)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	statusCounts := make(map[string]int64, len(dashboard.StatusCounts))
	for status, count := range dashboard.StatusCounts {
		statusCounts[string(status)] = count
	}

	responses.WriteSuccess(w, dashboardResponse{
		Totals:              dashboard.Totals,
		StatusCounts:        statusCounts,
		OrdersOverTime:      dashboard.OrdersOverTime,
		TopCountries:        dashboard.TopCountries,
		StockPerTranslation: dashboard.StockPerEdition,
		RecentOrders:        ordersToViews(dashboard.RecentOrders),
		LowStock:            editionsToViews(dashboard.LowStock),
	})
}

type dashboardResponse struct {
	Totals              analytics.Totals             `json:"totals"`
	StatusCounts        map[string]int64             `json:"status_counts"`
	OrdersOverTime      []analytics.TimeBucket       `json:"orders_over_time"`
	TopCountries        []analytics.CountryCount     `json:"top_countries"`
	StockPerTranslation []analytics.TranslationStock `json:"stock_per_translation"`
	RecentOrders        []orderView                  `json:"recent_orders"`
	LowStock            []editionView                `json:"low_stock"`
}
