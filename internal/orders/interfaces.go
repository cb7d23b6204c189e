package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// StockReserver decrements edition stock inside the order transaction and
// returns the remaining count.
type StockReserver interface {
	Reserve(ctx context.Context, tx *gorm.DB, editionID uuid.UUID, qty int) (int, error)
}

// EditionSource loads editions inside the order transaction.
type EditionSource interface {
	FindForOrder(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Edition, error)
}

// ThresholdProvider exposes the low-stock alert threshold from runtime settings.
type ThresholdProvider interface {
	LowStockThreshold() int
}
