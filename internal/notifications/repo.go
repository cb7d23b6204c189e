package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/pagination"
)

// Repository exposes persistence helpers for the notification activity feed.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, activity *models.NotificationActivity) error
	List(ctx context.Context, params listActivityParams) ([]models.NotificationActivity, *pagination.Cursor, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an activity repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listActivityParams struct {
	Limit     int
	Cursor    *pagination.Cursor
	EventType *enums.NotificationEventType
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, activity *models.NotificationActivity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listActivityParams) ([]models.NotificationActivity, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.NotificationActivity{})
	if params.EventType != nil {
		query = query.Where("event_type = ?", *params.EventType)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var activities []models.NotificationActivity
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&activities).Error; err != nil {
		return nil, nil, err
	}

	if len(activities) > normalized {
		next := activities[normalized]
		activities = activities[:normalized]
		return activities, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return activities, nil, nil
}

func (r *repositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.NotificationActivity{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
