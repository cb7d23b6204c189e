package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahmadsiddiqi/qurandist-backend/internal/notifications"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/notifier"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/settings"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/metrics"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/outbox"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/webhook"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "notifier"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "notifier",
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

	settingsSvc, err := settings.NewService(cfg.Settings.Path)
	requireResource(logg, "settings", err)

	activitySvc, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	requireResource(logg, "notifications service", err)

	sender := webhook.NewClient(webhook.WithHTTPClient(&http.Client{
		Timeout: cfg.Notifier.RequestTimeout,
	}))

	dispatcher, err := notifier.NewDispatcher(notifier.DispatcherParams{
		Logger:   logg,
		Outbox:   outbox.NewRepository(dbClient.DB()),
		Sender:   sender,
		Activity: activitySvc,
		Settings: settingsSvc,
		Metrics:  metrics.NewNotifierMetrics(prometheus.DefaultRegisterer),
		Config:   cfg.Notifier,
	})
	requireResource(logg, "dispatcher", err)

	logg.Info(logg.WithField(ctx, "poll_interval", cfg.Notifier.PollInterval.String()), "notifier.started")

	if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(context.Background(), "notifier stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "notifier.stopped")
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}
