package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
)

// Reserver is the surface order placement depends on.
type Reserver interface {
	Reserve(ctx context.Context, tx *gorm.DB, editionID uuid.UUID, qty int) (int, error)
}

// Service mutates edition stock. Every write is a conditional update so that
// concurrent requests cannot drive stock negative; the first committer wins.
type Service struct{}

// NewService exposes the default stock mutation implementation.
func NewService() *Service {
	return &Service{}
}

// Reserve decrements stock by qty inside the caller's transaction and returns
// the remaining stock. Fails with INSUFFICIENT_STOCK when fewer copies remain
// than requested, NOT_FOUND when the edition does not exist.
func (s *Service) Reserve(ctx context.Context, tx *gorm.DB, editionID uuid.UUID, qty int) (int, error) {
	if tx == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock reservation")
	}
	if editionID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "edition id required")
	}
	if qty <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE editions
		SET stock = stock - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, qty, editionID, qty)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve stock")
	}

	if res.RowsAffected == 0 {
		available, err := s.currentStock(ctx, tx, editionID)
		if err != nil {
			return 0, err
		}
		return 0, pkgerrors.InsufficientStock(available, qty)
	}

	return s.currentStock(ctx, tx, editionID)
}

// Restock adds qty copies to the edition inside the caller's transaction and
// returns the new stock level.
func (s *Service) Restock(ctx context.Context, tx *gorm.DB, editionID uuid.UUID, qty int) (int, error) {
	if tx == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for restock")
	}
	if qty <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "restock quantity must be positive")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE editions
		SET stock = stock + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, editionID)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restock edition")
	}
	if res.RowsAffected == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "edition not found")
	}

	return s.currentStock(ctx, tx, editionID)
}

// SetStock overwrites the stock level, rejecting negative values.
func (s *Service) SetStock(ctx context.Context, tx *gorm.DB, editionID uuid.UUID, stock int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock update")
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE editions
		SET stock = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, stock, editionID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "set stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "edition not found")
	}
	return nil
}

func (s *Service) currentStock(ctx context.Context, tx *gorm.DB, editionID uuid.UUID) (int, error) {
	var edition models.Edition
	err := tx.WithContext(ctx).Select("stock").Where("id = ?", editionID).First(&edition).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "edition not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load edition stock")
	}
	return edition.Stock, nil
}
