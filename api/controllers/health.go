package controllers

import (
	"context"
	"net/http"

	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes.
type HealthController struct {
	db    pinger
	redis pinger
	logg  *logger.Logger
}

func NewHealthController(db, redis pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, redis: redis, logg: logg}
}

func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{"db": "ok", "redis": "ok"}
	healthy := true

	if c.db == nil || c.db.Ping(ctx) != nil {
		checks["db"] = "unavailable"
		healthy = false
	}
	if c.redis == nil || c.redis.Ping(ctx) != nil {
		checks["redis"] = "unavailable"
		healthy = false
	}

	if !healthy {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
		return
	}
	responses.WriteSuccess(w, checks)
}
