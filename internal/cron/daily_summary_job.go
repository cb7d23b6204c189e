package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/internal/analytics"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type summarySource interface {
	SummaryForDay(ctx context.Context, day time.Time) (*analytics.DailySummary, error)
}

type dedupeChecker interface {
	ExistsTx(tx *gorm.DB, eventType enums.OutboxEventType, aggregateType enums.OutboxAggregateType, aggregateID uuid.UUID) (bool, error)
}

// DailySummaryJobParams configure the daily summary job.
type DailySummaryJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Analytics summarySource
	Outbox    outbox.Emitter
	Dedupe    dedupeChecker
}

type dailySummaryJob struct {
	logg      *logger.Logger
	db        txRunner
	analytics summarySource
	outbox    outbox.Emitter
	dedupe    dedupeChecker
	now       func() time.Time
}

// NewDailySummaryJob emits one daily_summary_ready event per calendar day,
// covering the previous day's activity.
func NewDailySummaryJob(params DailySummaryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Analytics == nil {
		return nil, fmt.Errorf("analytics service required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Dedupe == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	return &dailySummaryJob{
		logg:      params.Logger,
		db:        params.DB,
		analytics: params.Analytics,
		outbox:    params.Outbox,
		dedupe:    params.Dedupe,
		now:       time.Now,
	}, nil
}

func (j *dailySummaryJob) Name() string { return "daily-summary" }

func (j *dailySummaryJob) Run(ctx context.Context) error {
	yesterday := j.now().UTC().Add(-24 * time.Hour)
	summary, err := j.analytics.SummaryForDay(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("daily summary: %w", err)
	}

	// Derived from the date so retries within the same day dedupe cleanly.
	aggregateID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("qurandist/daily-summary/"+summary.Date))

	emitted := false
	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		exists, err := j.dedupe.ExistsTx(tx, enums.EventDailySummaryReady, enums.AggregateSystem, aggregateID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		emitted = true
		return j.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDailySummaryReady,
			AggregateType: enums.AggregateSystem,
			AggregateID:   aggregateID,
			Data: outbox.DailySummaryData{
				Date:            summary.Date,
				OrdersPlaced:    summary.OrdersPlaced,
				OrdersDelivered: summary.OrdersDelivered,
				PendingOrders:   summary.PendingOrders,
				CopiesRequested: summary.CopiesRequested,
			},
		})
	})
	if err != nil {
		return fmt.Errorf("emit daily summary: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"date":    summary.Date,
		"emitted": emitted,
	})
	j.logg.Info(logCtx, "daily summary job complete")
	return nil
}
