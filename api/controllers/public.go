package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	"github.com/ahmadsiddiqi/qurandist-backend/api/validators"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/catalog"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/orders"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

// PublicController serves the unauthenticated request surface: order intake
// and the edition catalog shown on the request form.
type PublicController struct {
	orders  orders.Service
	catalog catalog.Service
	logg    *logger.Logger
}

func NewPublicController(ordersSvc orders.Service, catalogSvc catalog.Service, logg *logger.Logger) *PublicController {
	return &PublicController{orders: ordersSvc, catalog: catalogSvc, logg: logg}
}

type placeOrderRequest struct {
	FullName    string  `json:"full_name" validate:"required,min=2,max=200"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required,min=5,max=30"`
	CountryCode string  `json:"country_code" validate:"omitempty,max=8"`
	Address     string  `json:"address" validate:"required,min=5,max=500"`
	City        string  `json:"city" validate:"required,max=120"`
	State       string  `json:"state" validate:"required,max=120"`
	PostalCode  string  `json:"postal_code" validate:"required,max=20"`
	Quantity    *int    `json:"quantity" validate:"omitempty,min=1,max=100"`
	Note        *string `json:"note" validate:"omitempty,max=1000"`
	EditionID   *string `json:"edition_id" validate:"omitempty,uuid4"`
	Translation string  `json:"translation" validate:"omitempty,max=60"`
}

func (c *PublicController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req placeOrderRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	input := orders.PlaceOrderInput{
		FullName:    validators.SanitizeString(req.FullName, 200),
		Email:       validators.SanitizeString(req.Email, 320),
		Phone:       validators.SanitizeString(req.Phone, 30),
		CountryCode: validators.SanitizeString(req.CountryCode, 8),
		Address:     validators.SanitizeString(req.Address, 500),
		City:        validators.SanitizeString(req.City, 120),
		State:       validators.SanitizeString(req.State, 120),
		PostalCode:  validators.SanitizeString(req.PostalCode, 20),
		Quantity:    req.Quantity,
		Note:        req.Note,
		Translation: validators.SanitizeString(req.Translation, 60),
	}

	if req.EditionID != nil {
		editionID, err := uuid.Parse(*req.EditionID)
		if err != nil {
			responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid edition id"))
			return
		}
		input.EditionID = &editionID
	}

	order, err := c.orders.PlaceOrder(ctx, input)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, orderToView(*order))
}

// ListEditions returns in-stock editions for the public request form.
func (c *PublicController) ListEditions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	editions, err := c.catalog.List(ctx, catalog.ListParams{
		Translation: validators.SanitizeString(r.URL.Query().Get("translation"), 60),
		InStockOnly: true,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, editionsToViews(editions))
}
