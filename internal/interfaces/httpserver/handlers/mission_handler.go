package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/mission"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/requests"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/responses"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

type MissionService interface {
	Create(ctx context.Context, caller domain.Principal, input mission.CreateInput) (*mission.Mission, error)
	Get(ctx context.Context, id string) (*mission.Mission, error)
	List(ctx context.Context, filter mission.Filter) ([]*mission.Mission, error)
	Close(ctx context.Context, caller domain.Principal, id string) (*mission.Mission, error)
}

// MissionHandler serves mission postings.
type MissionHandler struct {
	service MissionService
	log     zerolog.Logger
}

func NewMissionHandler(service MissionService, log zerolog.Logger) *MissionHandler {
	return &MissionHandler{service: service, log: log.With().Str("handler", "mission").Logger()}
}

// List handles GET /v1/missions
// @Summary List missions
// @Tags Missions
// @Produce json
// @Param status query string false "open or closed"
// @Param recruiterId query string false "Owning recruiter"
// @Success 200 {array} mission.Mission
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/missions [get]
func (h *MissionHandler) List(c *gin.Context) {
	filter := mission.Filter{
		RecruiterID: c.Query("recruiterId"),
		Status:      mission.Status(c.Query("status")),
	}
	missions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		responses.HandleError(c, err, "failed to list missions")
		return
	}
	c.JSON(http.StatusOK, missions)
}

// Create handles POST /v1/missions
// @Summary Publish a mission
// @Tags Missions
// @Accept json
// @Produce json
// @Param request body requests.CreateMissionRequest true "Mission"
// @Success 201 {object} mission.Mission
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /v1/missions [post]
func (h *MissionHandler) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req requests.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "e4f5a6b7-4000-4d8e-9f0a-1b2c3d4e5f6a")
		return
	}
	m, err := h.service.Create(c.Request.Context(), caller, req.ToInput())
	if err != nil {
		responses.HandleError(c, err, "failed to create mission")
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Get handles GET /v1/missions/:id
// @Summary Get a mission
// @Tags Missions
// @Produce json
// @Param id path string true "Mission ID"
// @Success 200 {object} mission.Mission
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/missions/{id} [get]
func (h *MissionHandler) Get(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get mission")
		return
	}
	c.JSON(http.StatusOK, m)
}

// Close handles POST /v1/missions/:id/close
// @Summary Close a mission
// @Tags Missions
// @Produce json
// @Param id path string true "Mission ID"
// @Success 200 {object} mission.Mission
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/missions/{id}/close [post]
func (h *MissionHandler) Close(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	m, err := h.service.Close(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to close mission")
		return
	}
	c.JSON(http.StatusOK, m)
}
