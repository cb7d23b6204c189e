package controllers

import (
	"net/http"

	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	"github.com/ahmadsiddiqi/qurandist-backend/api/validators"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/notifications"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

// ActivityController serves the notification activity feed.
type ActivityController struct {
	service notifications.Service
	logg    *logger.Logger
}

func NewActivityController(service notifications.Service, logg *logger.Logger) *ActivityController {
	return &ActivityController{service: service, logg: logg}
}

type activityListResponse struct {
	Items  []activityView `json:"items"`
	Cursor string         `json:"cursor,omitempty"`
}

func (c *ActivityController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := validators.ParseQueryInt(r, "limit", defaultPageLimit, 1, maxPageLimit)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	result, err := c.service.List(ctx, notifications.ListParams{
		Limit:     limit,
		Cursor:    r.URL.Query().Get("cursor"),
		EventType: validators.SanitizeString(r.URL.Query().Get("event_type"), 40),
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, activityListResponse{
		Items:  activitiesToViews(result.Items),
		Cursor: result.Cursor,
	})
}
