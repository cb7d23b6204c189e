package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Edition{}, &models.EditionImage{}, &models.Order{}))
	return gdb
}

type fixedThreshold struct {
	threshold int
}

func (f fixedThreshold) LowStockThreshold() int { return f.threshold }

func seedEdition(t *testing.T, gdb *gorm.DB, title, translation string, stock int) models.Edition {
	t.Helper()
	edition := models.Edition{
		ID:          uuid.New(),
		Title:       title,
		Writer:      "Saheeh International",
		Translation: translation,
		Pages:       604,
		Stock:       stock,
	}
	require.NoError(t, gdb.Create(&edition).Error)
	return edition
}

func seedOrder(t *testing.T, gdb *gorm.DB, status enums.OrderStatus, country string, quantity int, at time.Time) models.Order {
	t.Helper()
	order := models.Order{
		ID:          uuid.New(),
		FullName:    "Ayesha Khan",
		Email:       "ayesha@example.org",
		Phone:       "+92 3001234567",
		CountryCode: country,
		Address:     "14 Canal Road",
		City:        "Lahore",
		State:       "Punjab",
		PostalCode:  "54000",
		Quantity:    quantity,
		Translation: "english",
		Status:      status,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	require.NoError(t, gdb.Create(&order).Error)
	return order
}

func newTestService(t *testing.T, gdb *gorm.DB, threshold int) Service {
	t.Helper()
	svc, err := NewService(NewRepository(gdb), fixedThreshold{threshold: threshold})
	require.NoError(t, err)
	return svc
}

func TestDashboardTotalsAndBreakdowns(t *testing.T) {
	gdb := newTestDB(t)
	seedEdition(t, gdb, "Noble Quran", "english", 40)
	seedEdition(t, gdb, "Al-Quran Al-Kareem", "urdu", 2)

	now := time.Now().UTC().Truncate(time.Second)
	seedOrder(t, gdb, enums.OrderStatusDelivered, "+92", 3, now.Add(-48*time.Hour))
	seedOrder(t, gdb, enums.OrderStatusDelivered, "+92", 2, now.Add(-24*time.Hour))
	seedOrder(t, gdb, enums.OrderStatusPending, "+44", 1, now.Add(-24*time.Hour))
	seedOrder(t, gdb, enums.OrderStatusShipped, "+1", 5, now)

	svc := newTestService(t, gdb, 5)
	dashboard, err := svc.Dashboard(context.Background(), DashboardParams{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), dashboard.Totals.TotalOrders)
	assert.Equal(t, int64(5), dashboard.Totals.CopiesDistributed)
	assert.Equal(t, int64(3), dashboard.Totals.CountriesServed)
	assert.Equal(t, int64(42), dashboard.Totals.StockRemaining)

	assert.Equal(t, int64(2), dashboard.StatusCounts[enums.OrderStatusDelivered])
	assert.Equal(t, int64(1), dashboard.StatusCounts[enums.OrderStatusPending])
	assert.Equal(t, int64(0), dashboard.StatusCounts[enums.OrderStatusCancelled])
	assert.Len(t, dashboard.StatusCounts, len(enums.OrderStatuses()))

	require.NotEmpty(t, dashboard.TopCountries)
	assert.Equal(t, "+92", dashboard.TopCountries[0].CountryCode)
	assert.Equal(t, int64(2), dashboard.TopCountries[0].Orders)

	require.Len(t, dashboard.StockPerEdition, 2)
	assert.Equal(t, "english", dashboard.StockPerEdition[0].Translation)
	assert.Equal(t, int64(40), dashboard.StockPerEdition[0].Stock)

	require.Len(t, dashboard.LowStock, 1)
	assert.Equal(t, "Al-Quran Al-Kareem", dashboard.LowStock[0].Title)

	require.Len(t, dashboard.RecentOrders, 4)
	assert.Equal(t, enums.OrderStatusShipped, dashboard.RecentOrders[0].Status)
}

func TestDashboardOrdersOverTimeDayBuckets(t *testing.T) {
	gdb := newTestDB(t)

	day1 := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 21, 15, 30, 0, 0, time.UTC)
	seedOrder(t, gdb, enums.OrderStatusPending, "+92", 2, day1)
	seedOrder(t, gdb, enums.OrderStatusPending, "+92", 1, day1.Add(2*time.Hour))
	seedOrder(t, gdb, enums.OrderStatusPending, "+92", 4, day2)

	svc := newTestService(t, gdb, 5)
	dashboard, err := svc.Dashboard(context.Background(), DashboardParams{
		Granularity: GranularityDay,
		From:        day1.Add(-time.Hour),
		To:          day2.Add(time.Hour),
	})
	require.NoError(t, err)

	require.Len(t, dashboard.OrdersOverTime, 2)
	assert.Equal(t, TimeBucket{Period: "2026-08-20", Orders: 2, Copies: 3}, dashboard.OrdersOverTime[0])
	assert.Equal(t, TimeBucket{Period: "2026-08-21", Orders: 1, Copies: 4}, dashboard.OrdersOverTime[1])
}

func TestDashboardMonthBucketsAndWindow(t *testing.T) {
	gdb := newTestDB(t)

	inJune := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	inJuly := time.Date(2026, 7, 2, 12, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	seedOrder(t, gdb, enums.OrderStatusPending, "+92", 1, inJune)
	seedOrder(t, gdb, enums.OrderStatusPending, "+92", 1, inJuly)
	seedOrder(t, gdb, enums.OrderStatusPending, "+92", 1, outside)

	svc := newTestService(t, gdb, 5)
	dashboard, err := svc.Dashboard(context.Background(), DashboardParams{
		Granularity: GranularityMonth,
		From:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, dashboard.OrdersOverTime, 2)
	assert.Equal(t, "2026-06", dashboard.OrdersOverTime[0].Period)
	assert.Equal(t, "2026-07", dashboard.OrdersOverTime[1].Period)
}

func TestDashboardValidation(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb, 5)

	_, err := svc.Dashboard(context.Background(), DashboardParams{Granularity: "hourly"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Dashboard(context.Background(), DashboardParams{
		From: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSummaryForDay(t *testing.T) {
	gdb := newTestDB(t)

	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	seedOrder(t, gdb, enums.OrderStatusPending, "+92", 2, day.Add(8*time.Hour))
	seedOrder(t, gdb, enums.OrderStatusPending, "+92", 3, day.Add(20*time.Hour))
	seedOrder(t, gdb, enums.OrderStatusDelivered, "+92", 1, day.Add(10*time.Hour))
	// Placed the day before; must not count toward copies requested.
	seedOrder(t, gdb, enums.OrderStatusCancelled, "+92", 9, day.Add(-6*time.Hour))

	svc := newTestService(t, gdb, 5)
	summary, err := svc.SummaryForDay(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-31", summary.Date)
	assert.Equal(t, int64(3), summary.OrdersPlaced)
	assert.Equal(t, int64(6), summary.CopiesRequested)
	assert.Equal(t, int64(1), summary.OrdersDelivered)
	assert.Equal(t, int64(2), summary.PendingOrders)
}
