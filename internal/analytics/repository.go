package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
)

// orderPoint is the minimal row shape needed for time-series bucketing.
type orderPoint struct {
	CreatedAt time.Time
	Quantity  int
}

// Repository runs the read-only aggregate queries behind the dashboard.
type Repository interface {
	TotalOrders(ctx context.Context) (int64, error)
	CopiesDistributed(ctx context.Context) (int64, error)
	CountriesServed(ctx context.Context) (int64, error)
	StockRemaining(ctx context.Context) (int64, error)
	StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error)
	OrdersBetween(ctx context.Context, from, to time.Time) ([]orderPoint, error)
	TopCountries(ctx context.Context, limit int) ([]CountryCount, error)
	StockByTranslation(ctx context.Context) ([]TranslationStock, error)
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	LowStockEditions(ctx context.Context, threshold int) ([]models.Edition, error)
	SummaryForDay(ctx context.Context, day time.Time) (*DailySummary, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns the gorm-backed analytics repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TotalOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *repository) CopiesDistributed(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", enums.OrderStatusDelivered).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) CountriesServed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Distinct("country_code").
		Count(&count).Error
	return count, err
}

func (r *repository) StockRemaining(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Edition{}).
		Select("COALESCE(SUM(stock), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.OrderStatus]int64, len(enums.OrderStatuses()))
	for _, status := range enums.OrderStatuses() {
		counts[status] = 0
	}
	for _, entry := range rows {
		counts[entry.Status] = entry.Count
	}
	return counts, nil
}

func (r *repository) OrdersBetween(ctx context.Context, from, to time.Time) ([]orderPoint, error) {
	var points []orderPoint
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("created_at, quantity").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Scan(&points).Error
	return points, err
}

func (r *repository) TopCountries(ctx context.Context, limit int) ([]CountryCount, error) {
	var rows []CountryCount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("country_code, COUNT(*) AS orders").
		Group("country_code").
		Order("orders DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) StockByTranslation(ctx context.Context) ([]TranslationStock, error) {
	var rows []TranslationStock
	err := r.db.WithContext(ctx).
		Model(&models.Edition{}).
		Select("translation, COUNT(*) AS editions, COALESCE(SUM(stock), 0) AS stock").
		Group("translation").
		Order("stock DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Edition").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *repository) LowStockEditions(ctx context.Context, threshold int) ([]models.Edition, error) {
	var editions []models.Edition
	err := r.db.WithContext(ctx).
		Where("stock < ?", threshold).
		Order("stock ASC").
		Find(&editions).Error
	return editions, err
}

func (r *repository) SummaryForDay(ctx context.Context, day time.Time) (*DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	summary := &DailySummary{Date: start.Format("2006-01-02")}

	type placed struct {
		Orders int64
		Copies int64
	}
	var placedRow placed
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(quantity), 0) AS copies").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&placedRow).Error
	if err != nil {
		return nil, err
	}
	summary.OrdersPlaced = placedRow.Orders
	summary.CopiesRequested = placedRow.Copies

	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ? AND updated_at >= ? AND updated_at < ?", enums.OrderStatusDelivered, start, end).
		Count(&summary.OrdersDelivered).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", enums.OrderStatusPending).
		Count(&summary.PendingOrders).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}
