package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ahmadsiddiqi/qurandist-backend/internal/analytics"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/outbox"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.OutboxEvent{}))
	return gdb
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubSummarySource struct {
	summary *analytics.DailySummary
	err     error
}

func (s stubSummarySource) SummaryForDay(context.Context, time.Time) (*analytics.DailySummary, error) {
	return s.summary, s.err
}

type stubLowStockSource struct {
	editions []models.Edition
}

func (s stubLowStockSource) LowStock(context.Context, int) ([]models.Edition, error) {
	return s.editions, nil
}

type stubThreshold struct {
	threshold int
}

func (s stubThreshold) LowStockThreshold() int { return s.threshold }

func TestDailySummaryJobEmitsOncePerDay(t *testing.T) {
	gdb := newTestDB(t)
	repo := outbox.NewRepository(gdb)

	job, err := NewDailySummaryJob(DailySummaryJobParams{
		Logger: testLogger(),
		DB:     gormTxRunner{db: gdb},
		Analytics: stubSummarySource{summary: &analytics.DailySummary{
			Date:            "2026-08-31",
			OrdersPlaced:    12,
			OrdersDelivered: 4,
			PendingOrders:   7,
			CopiesRequested: 30,
		}},
		Outbox: outbox.NewService(repo, nil),
		Dedupe: repo,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	var events []models.OutboxEvent
	require.NoError(t, gdb.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventDailySummaryReady, events[0].EventType)
	assert.Equal(t, enums.AggregateSystem, events[0].AggregateType)

	var envelope outbox.PayloadEnvelope
	require.NoError(t, json.Unmarshal(events[0].Payload, &envelope))
	var data outbox.DailySummaryData
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "2026-08-31", data.Date)
	assert.Equal(t, int64(12), data.OrdersPlaced)
}

func TestLowStockJobEmitsPerEdition(t *testing.T) {
	gdb := newTestDB(t)
	repo := outbox.NewRepository(gdb)

	editions := []models.Edition{
		{ID: uuid.New(), Title: "Noble Quran", Stock: 2},
		{ID: uuid.New(), Title: "Al-Quran Al-Kareem", Stock: 0},
	}
	job, err := NewLowStockJob(LowStockJobParams{
		Logger:   testLogger(),
		DB:       gormTxRunner{db: gdb},
		Editions: stubLowStockSource{editions: editions},
		Outbox:   outbox.NewService(repo, nil),
		Settings: stubThreshold{threshold: 5},
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))

	var events []models.OutboxEvent
	require.NoError(t, gdb.Order("created_at ASC").Find(&events).Error)
	require.Len(t, events, 2)
	for _, event := range events {
		assert.Equal(t, enums.EventStockLow, event.EventType)
		assert.Equal(t, enums.AggregateEdition, event.AggregateType)
	}
}

func TestLowStockJobNoEditions(t *testing.T) {
	gdb := newTestDB(t)
	repo := outbox.NewRepository(gdb)

	job, err := NewLowStockJob(LowStockJobParams{
		Logger:   testLogger(),
		DB:       gormTxRunner{db: gdb},
		Editions: stubLowStockSource{},
		Outbox:   outbox.NewService(repo, nil),
		Settings: stubThreshold{threshold: 5},
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))

	var count int64
	require.NoError(t, gdb.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

type stubPurger struct {
	removed   int64
	retention time.Duration
}

func (s *stubPurger) PurgeOlderThan(_ context.Context, retention time.Duration) (int64, error) {
	s.retention = retention
	return s.removed, nil
}

func TestActivityCleanupJobUsesConfiguredRetention(t *testing.T) {
	purger := &stubPurger{removed: 3}
	job, err := NewActivityCleanupJob(ActivityCleanupJobParams{
		Logger:        testLogger(),
		Activity:      purger,
		RetentionDays: 14,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 14*24*time.Hour, purger.retention)
}

func TestOutboxRetentionJobDeletesPublishedRows(t *testing.T) {
	gdb := newTestDB(t)

	old := time.Now().UTC().Add(-60 * 24 * time.Hour)
	recent := time.Now().UTC()
	seed := []models.OutboxEvent{
		{ID: uuid.New(), EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`), PublishedAt: &old},
		{ID: uuid.New(), EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`), PublishedAt: &recent},
		{ID: uuid.New(), EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`)},
	}
	for i := range seed {
		require.NoError(t, gdb.Create(&seed[i]).Error)
	}

	job, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:        testLogger(),
		Repository:    outbox.NewRepository(gdb),
		RetentionDays: 30,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))

	var count int64
	require.NoError(t, gdb.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "old published row removed, unpublished kept")
}
