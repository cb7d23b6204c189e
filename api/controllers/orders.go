package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	"github.com/ahmadsiddiqi/qurandist-backend/api/validators"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/orders"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/pagination"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// OrdersController serves the admin order management surface.
type OrdersController struct {
	service orders.Service
	logg    *logger.Logger
}

func NewOrdersController(service orders.Service, logg *logger.Logger) *OrdersController {
	return &OrdersController{service: service, logg: logg}
}

type orderListResponse struct {
	Items      []orderView `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

func (c *OrdersController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := validators.ParseQueryInt(r, "limit", defaultPageLimit, 1, maxPageLimit)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	params := orders.ListParams{
		Search: validators.SanitizeString(r.URL.Query().Get("q"), 200),
		Page: pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		},
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			responses.WriteError(ctx, c.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
			return
		}
		params.Status = &status
	}

	result, err := c.service.List(ctx, params)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, orderListResponse{
		Items:      ordersToViews(result.Orders),
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	})
}

func (c *OrdersController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
		return
	}

	order, err := c.service.Get(ctx, orderID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, orderToView(*order))
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (c *OrdersController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
		return
	}

	var req updateStatusRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	order, err := c.service.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, orderToView(*order))
}

func (c *OrdersController) StatusCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := c.service.StatusCounts(ctx)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	view := make(map[string]int64, len(counts))
	for status, count := range counts {
		view[string(status)] = count
	}
	responses.WriteSuccess(w, view)
}
