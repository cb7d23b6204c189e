package controllers

import (
	"net/http"

	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	"github.com/ahmadsiddiqi/qurandist-backend/api/validators"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/settings"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

// SettingsController exposes the runtime notification settings.
type SettingsController struct {
	service *settings.Service
	logg    *logger.Logger
}

func NewSettingsController(service *settings.Service, logg *logger.Logger) *SettingsController {
	return &SettingsController{service: service, logg: logg}
}

func (c *SettingsController) Get(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, c.service.Current())
}

func (c *SettingsController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var next settings.NotificationSettings
	if err := validators.DecodeJSONBody(r, &next); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.service.Update(next); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, c.service.Current())
}

// Reload re-reads the settings file, picking up out-of-band edits.
func (c *SettingsController) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := c.service.Reload(); err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading settings"))
		return
	}

	responses.WriteSuccess(w, c.service.Current())
}
