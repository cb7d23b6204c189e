package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
)

const (
	recentOrdersLimit = 10
	topCountriesLimit = 5
)

// ThresholdProvider exposes the configured low-stock alert threshold.
type ThresholdProvider interface {
	LowStockThreshold() int
}

// Service assembles dashboard and summary reports.
type Service interface {
	Dashboard(ctx context.Context, params DashboardParams) (*Dashboard, error)
	SummaryForDay(ctx context.Context, day time.Time) (*DailySummary, error)
}

type service struct {
	repo     Repository
	settings ThresholdProvider
	now      func() time.Time
}

// NewService builds the analytics service.
func NewService(repo Repository, settings ThresholdProvider) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if settings == nil {
		return nil, fmt.Errorf("threshold provider required")
	}
	return &service{repo: repo, settings: settings, now: time.Now}, nil
}

func (s *service) Dashboard(ctx context.Context, params DashboardParams) (*Dashboard, error) {
	params, err := s.normalize(params)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{}

	if dashboard.Totals.TotalOrders, err = s.repo.TotalOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	if dashboard.Totals.CopiesDistributed, err = s.repo.CopiesDistributed(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum delivered copies")
	}
	if dashboard.Totals.CountriesServed, err = s.repo.CountriesServed(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count countries")
	}
	if dashboard.Totals.StockRemaining, err = s.repo.StockRemaining(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum stock")
	}
	if dashboard.StatusCounts, err = s.repo.StatusCounts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count statuses")
	}

	points, err := s.repo.OrdersBetween(ctx, params.From, params.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order series")
	}
	dashboard.OrdersOverTime = bucketize(points, params.Granularity)

	if dashboard.TopCountries, err = s.repo.TopCountries(ctx, topCountriesLimit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank countries")
	}
	if dashboard.StockPerEdition, err = s.repo.StockByTranslation(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stock by translation")
	}
	if dashboard.RecentOrders, err = s.repo.RecentOrders(ctx, recentOrdersLimit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent orders")
	}
	if dashboard.LowStock, err = s.repo.LowStockEditions(ctx, s.settings.LowStockThreshold()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load low stock editions")
	}

	return dashboard, nil
}

func (s *service) SummaryForDay(ctx context.Context, day time.Time) (*DailySummary, error) {
	summary, err := s.repo.SummaryForDay(ctx, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build daily summary")
	}
	return summary, nil
}

func (s *service) normalize(params DashboardParams) (DashboardParams, error) {
	if params.Granularity == "" {
		params.Granularity = GranularityDay
	}
	if !params.Granularity.IsValid() {
		return params, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid granularity %q", params.Granularity))
	}

	if params.To.IsZero() {
		params.To = s.now()
	}
	if params.From.IsZero() {
		params.From = params.To.Add(-defaultWindow(params.Granularity))
	}
	if !params.From.Before(params.To) {
		return params, pkgerrors.New(pkgerrors.CodeValidation, "from must precede to")
	}
	return params, nil
}

func defaultWindow(granularity Granularity) time.Duration {
	switch granularity {
	case GranularityWeek:
		return 12 * 7 * 24 * time.Hour
	case GranularityMonth:
		return 365 * 24 * time.Hour
	case GranularityYear:
		return 5 * 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// bucketize groups raw order points into labelled periods. Grouping happens
// here rather than in SQL so the same query works on postgres and sqlite.
func bucketize(points []orderPoint, granularity Granularity) []TimeBucket {
	byPeriod := make(map[string]*TimeBucket)
	for _, point := range points {
		label := periodLabel(point.CreatedAt, granularity)
		bucket, ok := byPeriod[label]
		if !ok {
			bucket = &TimeBucket{Period: label}
			byPeriod[label] = bucket
		}
		bucket.Orders++
		bucket.Copies += int64(point.Quantity)
	}

	buckets := make([]TimeBucket, 0, len(byPeriod))
	for _, bucket := range byPeriod {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Period < buckets[j].Period
	})
	return buckets
}

func periodLabel(at time.Time, granularity Granularity) string {
	switch granularity {
	case GranularityWeek:
		year, week := at.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonth:
		return at.Format("2006-01")
	case GranularityYear:
		return at.Format("2006")
	default:
		return at.Format("2006-01-02")
	}
}
