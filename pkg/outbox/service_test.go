package outbox

import (
	"context"
	"encoding/json"
	"errors"
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

func TestEmitQueuesEnvelope(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewService(NewRepository(gdb), nil)

	orderID := uuid.New()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Data:          OrderCreatedData{OrderID: orderID, FullName: "Ayesha Khan", Quantity: 2},
		})
	})
	require.NoError(t, err)

	var rows []models.OutboxEvent
	require.NoError(t, gdb.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.EventOrderCreated, rows[0].EventType)
	assert.Equal(t, orderID, rows[0].AggregateID)
	assert.Nil(t, rows[0].PublishedAt)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	assert.False(t, envelope.OccurredAt.IsZero())

	var data OrderCreatedData
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "Ayesha Khan", data.FullName)
	assert.Equal(t, 2, data.Quantity)
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(newTestDB(t)), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{})
	assert.Error(t, err)
}

func TestFetchUnpublishedSkipsExhaustedAndPublished(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)

	now := time.Now()
	fresh := models.OutboxEvent{ID: uuid.New(), EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`)}
	exhausted := models.OutboxEvent{ID: uuid.New(), EventType: enums.EventStockLow, AggregateType: enums.AggregateEdition, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`), AttemptCount: 10}
	done := models.OutboxEvent{ID: uuid.New(), EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`), PublishedAt: &now}
	require.NoError(t, gdb.Create(&fresh).Error)
	require.NoError(t, gdb.Create(&exhausted).Error)
	require.NoError(t, gdb.Create(&done).Error)

	rows, err := repo.FetchUnpublished(50, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fresh.ID, rows[0].ID)
}

func TestMarkPublishedAndFailed(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)

	row := models.OutboxEvent{ID: uuid.New(), EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`)}
	require.NoError(t, gdb.Create(&row).Error)

	require.NoError(t, repo.MarkFailed(row.ID, errors.New("webhook timeout")))
	var after models.OutboxEvent
	require.NoError(t, gdb.First(&after, "id = ?", row.ID).Error)
	assert.Equal(t, 1, after.AttemptCount)
	require.NotNil(t, after.LastError)
	assert.Equal(t, "webhook timeout", *after.LastError)

	require.NoError(t, repo.MarkPublished(row.ID))
	require.NoError(t, gdb.First(&after, "id = ?", row.ID).Error)
	assert.NotNil(t, after.PublishedAt)
}

func TestDeletePublishedBefore(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)

	old := time.Now().Add(-48 * time.Hour)
	kept := time.Now()
	require.NoError(t, gdb.Create(&models.OutboxEvent{ID: uuid.New(), EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`), PublishedAt: &old}).Error)
	require.NoError(t, gdb.Create(&models.OutboxEvent{ID: uuid.New(), EventType: enums.EventOrderCreated, AggregateType: enums.AggregateOrder, AggregateID: uuid.New(), Payload: json.RawMessage(`{}`), PublishedAt: &kept}).Error)

	deleted, err := repo.DeletePublishedBefore(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	require.NoError(t, gdb.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
