package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/user"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/requests"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/responses"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

// UserService is the profile surface the handler depends on.
type UserService interface {
	EnsureProfile(ctx context.Context, principal domain.Principal) (*user.Profile, error)
	GetProfile(ctx context.Context, id string) (*user.Profile, error)
	UpdateProfile(ctx context.Context, principal domain.Principal, input user.UpdateProfileInput) (*user.Profile, error)
}

// UserHandler serves marketplace profiles.
type UserHandler struct {
	service UserService
	log     zerolog.Logger
}

func NewUserHandler(service UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{service: service, log: log.With().Str("handler", "user").Logger()}
}

// Me handles GET /v1/users/me
// @Summary Get the caller's profile
// @Tags Users
// @Produce json
// @Success 200 {object} user.Profile
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	profile, err := h.service.EnsureProfile(c.Request.Context(), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe handles PATCH /v1/users/me
// @Summary Update the caller's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param request body requests.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} user.Profile
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req requests.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "d3e4f5a6-3000-4c7d-8e9f-0a1b2c3d4e5f")
		return
	}
	profile, err := h.service.UpdateProfile(c.Request.Context(), caller, req.ToInput())
	if err != nil {
		responses.HandleError(c, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Get handles GET /v1/users/:id
// @Summary Get a profile by id
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} user.Profile
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
