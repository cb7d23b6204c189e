package controllers

import (
	"net/http"
	"time"

	"github.com/ahmadsiddiqi/qurandist-backend/api/responses"
	"github.com/ahmadsiddiqi/qurandist-backend/api/validators"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/auth"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
)

// AuthController handles back-office authentication.
type AuthController struct {
	service auth.Service
	logg    *logger.Logger
}

func NewAuthController(service auth.Service, logg *logger.Logger) *AuthController {
	return &AuthController{service: service, logg: logg}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Admin     adminView `json:"admin"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	result, err := c.service.Login(ctx, auth.LoginInput{
		Email:    validators.SanitizeString(req.Email, 320),
		Password: req.Password,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Admin:     adminToView(result.Admin),
	})
}
