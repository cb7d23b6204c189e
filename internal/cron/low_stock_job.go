package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/outbox"
)

type lowStockSource interface {
	LowStock(ctx context.Context, threshold int) ([]models.Edition, error)
}

type thresholdProvider interface {
	LowStockThreshold() int
}

// LowStockJobParams configure the low stock sweep.
type LowStockJobParams struct {
	Logger   *logger.Logger
	DB       txRunner
	Editions lowStockSource
	Outbox   outbox.Emitter
	Settings thresholdProvider
}

// NewLowStockJob sweeps the catalog for editions under the alert threshold.
// It catches stock that dropped outside order placement, such as manual
// corrections.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Editions == nil {
		return nil, fmt.Errorf("editions source required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings provider required")
	}
	return &lowStockJob{
		logg:     params.Logger,
		db:       params.DB,
		editions: params.Editions,
		outbox:   params.Outbox,
		settings: params.Settings,
	}, nil
}

type lowStockJob struct {
	logg     *logger.Logger
	db       txRunner
	editions lowStockSource
	outbox   outbox.Emitter
	settings thresholdProvider
}

func (j *lowStockJob) Name() string { return "low-stock-sweep" }

func (j *lowStockJob) Run(ctx context.Context) error {
	threshold := j.settings.LowStockThreshold()
	editions, err := j.editions.LowStock(ctx, threshold)
	if err != nil {
		return fmt.Errorf("list low stock editions: %w", err)
	}
	if len(editions) == 0 {
		j.logg.Info(ctx, "no editions under threshold")
		return nil
	}

	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, edition := range editions {
			event := outbox.DomainEvent{
				EventType:     enums.EventStockLow,
				AggregateType: enums.AggregateEdition,
				AggregateID:   edition.ID,
				Data: outbox.StockLowData{
					EditionID: edition.ID,
					Title:     edition.Title,
					Stock:     edition.Stock,
					Threshold: threshold,
				},
			}
			if err := j.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("emit low stock events: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"threshold": threshold,
		"editions":  len(editions),
	})
	j.logg.Info(logCtx, "low stock sweep complete")
	return nil
}
