package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahmadsiddiqi/qurandist-backend/internal/analytics"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/catalog"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/cron"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/notifications"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/settings"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/metrics"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/outbox"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(ctx, cfg.Redis)
	requireResource(logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	settingsSvc, err := settings.NewService(cfg.Settings.Path)
	requireResource(logg, "settings", err)

	gormDB := dbClient.DB()
	outboxRepo := outbox.NewRepository(gormDB)
	outboxSvc := outbox.NewService(outboxRepo, logg)

	analyticsSvc, err := analytics.NewService(analytics.NewRepository(gormDB), settingsSvc)
	requireResource(logg, "analytics service", err)

	activitySvc, err := notifications.NewService(notifications.NewRepository(gormDB))
	requireResource(logg, "notifications service", err)

	dailySummaryJob, err := cron.NewDailySummaryJob(cron.DailySummaryJobParams{
		Logger:    logg,
		DB:        dbClient,
		Analytics: analyticsSvc,
		Outbox:    outboxSvc,
		Dedupe:    outboxRepo,
	})
	requireResource(logg, "daily summary job", err)

	lowStockJob, err := cron.NewLowStockJob(cron.LowStockJobParams{
		Logger:   logg,
		DB:       dbClient,
		Editions: catalog.NewRepository(gormDB),
		Outbox:   outboxSvc,
		Settings: settingsSvc,
	})
	requireResource(logg, "low stock job", err)

	activityCleanupJob, err := cron.NewActivityCleanupJob(cron.ActivityCleanupJobParams{
		Logger:        logg,
		Activity:      activitySvc,
		RetentionDays: cfg.Cron.RetentionDays,
	})
	requireResource(logg, "activity cleanup job", err)

	outboxRetentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		Repository: outboxRepo,
	})
	requireResource(logg, "outbox retention job", err)

	lock, err := cron.NewRedisLock(redisClient, cfg.Cron.LockKey, cfg.Cron.LockTTL)
	requireResource(logg, "cron lock", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(dailySummaryJob, lowStockJob, activityCleanupJob, outboxRetentionJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	requireResource(logg, "cron service", err)

	logg.Info(logg.WithField(ctx, "interval", cfg.Cron.Interval.String()), "cron.started")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(context.Background(), "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "cron.stopped")
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}
