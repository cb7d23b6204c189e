package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ahmadsiddiqi/qurandist-backend/api"
	"github.com/ahmadsiddiqi/qurandist-backend/api/controllers"
	"github.com/ahmadsiddiqi/qurandist-backend/api/routes"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/admins"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/analytics"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/auth"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/catalog"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/inventory"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/notifications"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/orders"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/settings"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/migrate"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/outbox"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	requireResource(logg, "migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

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

	inventorySvc := inventory.NewService()
	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(gormDB), inventorySvc, dbClient)
	requireResource(logg, "catalog service", err)

	ordersSvc, err := orders.NewService(
		orders.NewRepository(gormDB),
		catalogSvc,
		inventorySvc,
		dbClient,
		outboxSvc,
		settingsSvc,
		cfg.Orders,
	)
	requireResource(logg, "orders service", err)

	adminsRepo := admins.NewRepository(gormDB)
	adminsSvc, err := admins.NewService(adminsRepo, dbClient, cfg.Password)
	requireResource(logg, "admins service", err)

	authSvc, err := auth.NewService(adminsRepo, cfg.JWT)
	requireResource(logg, "auth service", err)

	analyticsSvc, err := analytics.NewService(analytics.NewRepository(gormDB), settingsSvc)
	requireResource(logg, "analytics service", err)

	activitySvc, err := notifications.NewService(notifications.NewRepository(gormDB))
	requireResource(logg, "notifications service", err)

	handler := routes.New(routes.Deps{
		Config:    cfg,
		Logger:    logg,
		RateStore: redisClient,
		Health:    controllers.NewHealthController(dbClient, redisClient, logg),
		Public:    controllers.NewPublicController(ordersSvc, catalogSvc, logg),
		Auth:      controllers.NewAuthController(authSvc, logg),
		Orders:    controllers.NewOrdersController(ordersSvc, logg),
		Editions:  controllers.NewEditionsController(catalogSvc, logg),
		Admins:    controllers.NewAdminsController(adminsSvc, logg),
		Analytics: controllers.NewAnalyticsController(analyticsSvc, logg),
		Activity:  controllers.NewActivityController(activitySvc, logg),
		Settings:  controllers.NewSettingsController(settingsSvc, logg),
	})

	server := api.NewServer(cfg.App.Port, handler, logg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logg.Error(context.Background(), "server shutdown failed", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil {
			logg.Error(context.Background(), "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}
