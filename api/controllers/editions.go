package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	"github.com/ahmadsiddiqi/qurandist-backend/api/validators"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/catalog"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

// EditionsController serves the admin catalog surface.
type EditionsController struct {
	service catalog.Service
	logg    *logger.Logger
}

func NewEditionsController(service catalog.Service, logg *logger.Logger) *EditionsController {
	return &EditionsController{service: service, logg: logg}
}

type createEditionRequest struct {
	Title       string   `json:"title" validate:"required,min=2,max=200"`
	Writer      string   `json:"writer" validate:"required,max=200"`
	Translation string   `json:"translation" validate:"required,max=60"`
	Pages       int      `json:"pages" validate:"required,min=1"`
	Stock       int      `json:"stock" validate:"min=0"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	ImageURLs   []string `json:"image_urls" validate:"omitempty,dive,url"`
}

func (c *EditionsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createEditionRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	edition, err := c.service.Create(ctx, catalog.CreateEditionInput{
		Title:       validators.SanitizeString(req.Title, 200),
		Writer:      validators.SanitizeString(req.Writer, 200),
		Translation: validators.SanitizeString(req.Translation, 60),
		Pages:       req.Pages,
		Stock:       req.Stock,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, editionToView(*edition))
}

type updateEditionRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=2,max=200"`
	Writer      *string  `json:"writer" validate:"omitempty,max=200"`
	Translation *string  `json:"translation" validate:"omitempty,max=60"`
	Pages       *int     `json:"pages" validate:"omitempty,min=1"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	ImageURLs   []string `json:"image_urls" validate:"omitempty,dive,url"`
	ClearImages bool     `json:"clear_images"`
}

func (c *EditionsController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	editionID, err := uuid.Parse(chi.URLParam(r, "editionId"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid edition id"))
		return
	}

	var req updateEditionRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	edition, err := c.service.Update(ctx, editionID, catalog.UpdateEditionInput{
		Title:       req.Title,
		Writer:      req.Writer,
		Translation: req.Translation,
		Pages:       req.Pages,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
		ClearImages: req.ClearImages,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, editionToView(*edition))
}

func (c *EditionsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	editionID, err := uuid.Parse(chi.URLParam(r, "editionId"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid edition id"))
		return
	}

	edition, err := c.service.Get(ctx, editionID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, editionToView(*edition))
}

func (c *EditionsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	editions, err := c.service.List(ctx, catalog.ListParams{
		Translation: validators.SanitizeString(r.URL.Query().Get("translation"), 60),
		InStockOnly: r.URL.Query().Get("in_stock") == "true",
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, editionsToViews(editions))
}

func (c *EditionsController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	editionID, err := uuid.Parse(chi.URLParam(r, "editionId"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid edition id"))
		return
	}

	if err := c.service.Delete(ctx, editionID); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusOK, map[string]bool{"deleted": true})
}

type restockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=1000000"`
}

func (c *EditionsController) Restock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	editionID, err := uuid.Parse(chi.URLParam(r, "editionId"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid edition id"))
		return
	}

	var req restockRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	edition, err := c.service.Restock(ctx, editionID, req.Quantity)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, editionToView(*edition))
}
