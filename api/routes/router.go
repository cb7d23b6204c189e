package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ahmadsiddiqi/qurandist-backend/api/controllers"
	"github.com/ahmadsiddiqi/qurandist-backend/api/middleware"
	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

// Deps collects everything the router needs to mount the full API surface.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	RateStore middleware.RateStore

	Health    *controllers.HealthController
	Public    *controllers.PublicController
	Auth      *controllers.AuthController
	Orders    *controllers.OrdersController
	Editions  *controllers.EditionsController
	Admins    *controllers.AdminsController
	Analytics *controllers.AnalyticsController
	Activity  *controllers.ActivityController
	Settings  *controllers.SettingsController
}

// New assembles the chi router with middleware and all route groups.
func New(deps Deps) http.Handler {
	logg := deps.Logger

	router := chi.NewRouter()
	router.Use(middleware.Recoverer(logg))
	router.Use(middleware.RequestID(logg))
	router.Use(middleware.Logging(logg))
	router.Use(middleware.CORS())

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeValidation, "method not allowed"))
	})

	router.Route("/health", func(r chi.Router) {
		r.Get("/live", deps.Health.Live)
		r.Get("/ready", deps.Health.Ready)
	})

	orderPolicy := middleware.NewRateLimitPolicy(
		"public-orders",
		deps.Config.AuthRateLimit.LoginWindow,
		deps.Config.AuthRateLimit.LoginIPLimit,
		deps.Config.AuthRateLimit.LoginEmailLimit,
	)
	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		deps.Config.AuthRateLimit.LoginWindow,
		deps.Config.AuthRateLimit.LoginIPLimit,
		deps.Config.AuthRateLimit.LoginEmailLimit,
	)

	router.Route("/api/public", func(r chi.Router) {
		r.With(middleware.RateLimit(orderPolicy, deps.RateStore, logg)).
			Post("/orders", deps.Public.PlaceOrder)
		r.Get("/editions", deps.Public.ListEditions)
	})

	router.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(loginPolicy, deps.RateStore, logg)).
			Post("/auth/login", deps.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Config.JWT, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", deps.Orders.List)
				r.Get("/status-counts", deps.Orders.StatusCounts)
				r.Get("/{orderId}", deps.Orders.Get)
				r.Patch("/{orderId}/status", deps.Orders.UpdateStatus)
			})

			r.Route("/editions", func(r chi.Router) {
				r.Get("/", deps.Editions.List)
				r.Post("/", deps.Editions.Create)
				r.Get("/{editionId}", deps.Editions.Get)
				r.Put("/{editionId}", deps.Editions.Update)
				r.Delete("/{editionId}", deps.Editions.Delete)
				r.Post("/{editionId}/restock", deps.Editions.Restock)
			})

			r.Route("/admins", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.AdminRoleSuperAdmin)))
				r.Get("/", deps.Admins.List)
				r.Post("/", deps.Admins.Create)
				r.Get("/{adminId}", deps.Admins.Get)
				r.Put("/{adminId}", deps.Admins.Update)
				r.Delete("/{adminId}", deps.Admins.Delete)
			})

			r.Get("/analytics/dashboard", deps.Analytics.Dashboard)
			r.Get("/activity", deps.Activity.List)

			r.Route("/settings/notifications", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.AdminRoleSuperAdmin)))
				r.Get("/", deps.Settings.Get)
				r.Put("/", deps.Settings.Update)
				r.Post("/reload", deps.Settings.Reload)
			})
		})
	})

	return router
}
