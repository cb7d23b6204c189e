package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

const activityRetentionDays = 90

type activityPurger interface {
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// ActivityCleanupJobParams configure the activity feed retention job.
type ActivityCleanupJobParams struct {
	Logger        *logger.Logger
	Activity      activityPurger
	RetentionDays int
}

// NewActivityCleanupJob trims old notification activity entries.
func NewActivityCleanupJob(params ActivityCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Activity == nil {
		return nil, fmt.Errorf("activity service required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = activityRetentionDays
	}
	return &activityCleanupJob{
		logg:      params.Logger,
		activity:  params.Activity,
		retention: retention,
	}, nil
}

type activityCleanupJob struct {
	logg      *logger.Logger
	activity  activityPurger
	retention int
}

func (j *activityCleanupJob) Name() string { return "activity-cleanup" }

func (j *activityCleanupJob) Run(ctx context.Context) error {
	removed, err := j.activity.PurgeOlderThan(ctx, time.Duration(j.retention)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("activity cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"retention_days": j.retention,
		"rows_deleted":   removed,
	})
	j.logg.Info(logCtx, "activity cleanup complete")
	return nil
}
