package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahmadsiddiqi/qurandist-backend/api/middleware"
	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	"github.com/ahmadsiddiqi/qurandist-backend/api/validators"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/admins"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

// AdminsController serves the super-admin directory surface.
type AdminsController struct {
	service admins.Service
	logg    *logger.Logger
}

func NewAdminsController(service admins.Service, logg *logger.Logger) *AdminsController {
	return &AdminsController{service: service, logg: logg}
}

type createAdminRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"required"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

func (c *AdminsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createAdminRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	admin, err := c.service.Create(ctx, admins.CreateAdminInput{
		Email:     validators.SanitizeString(req.Email, 320),
		FirstName: validators.SanitizeString(req.FirstName, 100),
		LastName:  validators.SanitizeString(req.LastName, 100),
		Role:      req.Role,
		Password:  req.Password,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, adminToView(*admin))
}

type updateAdminRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Role      *string `json:"role"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=128"`
}

func (c *AdminsController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	adminID, err := uuid.Parse(chi.URLParam(r, "adminId"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid admin id"))
		return
	}

	var req updateAdminRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	admin, err := c.service.Update(ctx, adminID, admins.UpdateAdminInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Password:  req.Password,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, adminToView(*admin))
}

func (c *AdminsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	adminID, err := uuid.Parse(chi.URLParam(r, "adminId"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid admin id"))
		return
	}

	admin, err := c.service.Get(ctx, adminID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, adminToView(*admin))
}

func (c *AdminsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := c.service.List(ctx)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, adminsToViews(list))
}

func (c *AdminsController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	adminID, err := uuid.Parse(chi.URLParam(r, "adminId"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid admin id"))
		return
	}

	actorID, err := uuid.Parse(middleware.AdminIDFromContext(ctx))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return
	}

	if err := c.service.Delete(ctx, actorID, adminID); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusOK, map[string]bool{"deleted": true})
}
