package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/proposal"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/requests"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/responses"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

type ProposalService interface {
	Submit(ctx context.Context, caller domain.Principal, missionID string, input proposal.SubmitInput) (*proposal.Proposal, error)
	ListForMission(ctx context.Context, caller domain.Principal, missionID string) ([]*proposal.Proposal, error)
	ListMine(ctx context.Context, caller domain.Principal) ([]*proposal.Proposal, error)
	Accept(ctx context.Context, caller domain.Principal, id string) (*proposal.Proposal, error)
	Reject(ctx context.Context, caller domain.Principal, id string) (*proposal.Proposal, error)
	Withdraw(ctx context.Context, caller domain.Principal, id string) (*proposal.Proposal, error)
}

// ProposalHandler serves talent applications to missions.
type ProposalHandler struct {
	service ProposalService
	log     zerolog.Logger
}

func NewProposalHandler(service ProposalService, log zerolog.Logger) *ProposalHandler {
	return &ProposalHandler{service: service, log: log.With().Str("handler", "proposal").Logger()}
}

// Submit handles POST /v1/missions/:id/proposals
// @Summary Apply to a mission
// @Description Opens the conversation with the mission's recruiter as a side effect.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Mission ID"
// @Param request body requests.SubmitProposalRequest true "Proposal"
// @Success 201 {object} proposal.Proposal
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/missions/{id}/proposals [post]
func (h *ProposalHandler) Submit(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req requests.SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "f5a6b7c8-5000-4e9f-8a1b-2c3d4e5f6a7b")
		return
	}
	p, err := h.service.Submit(c.Request.Context(), caller, c.Param("id"), req.ToInput())
	if err != nil {
		responses.HandleError(c, err, "failed to submit proposal")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListForMission handles GET /v1/missions/:id/proposals
// @Summary List proposals on a mission
// @Tags Proposals
// @Produce json
// @Param id path string true "Mission ID"
// @Success 200 {array} proposal.Proposal
// @Failure 403 {object} responses.ErrorResponse
// @Router /v1/missions/{id}/proposals [get]
func (h *ProposalHandler) ListForMission(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	list, err := h.service.ListForMission(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to list proposals")
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListMine handles GET /v1/proposals
// @Summary List the caller's proposals
// @Tags Proposals
// @Produce json
// @Success 200 {array} proposal.Proposal
// @Router /v1/proposals [get]
func (h *ProposalHandler) ListMine(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	list, err := h.service.ListMine(c.Request.Context(), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to list proposals")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Accept handles POST /v1/proposals/:id/accept
// @Summary Accept a proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} proposal.Proposal
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/proposals/{id}/accept [post]
func (h *ProposalHandler) Accept(c *gin.Context) {
	h.transition(c, h.service.Accept, "failed to accept proposal")
}

// Reject handles POST /v1/proposals/:id/reject
// @Summary Reject a proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} proposal.Proposal
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/proposals/{id}/reject [post]
func (h *ProposalHandler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject, "failed to reject proposal")
}

// Withdraw handles POST /v1/proposals/:id/withdraw
// @Summary Withdraw a proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} proposal.Proposal
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/proposals/{id}/withdraw [post]
func (h *ProposalHandler) Withdraw(c *gin.Context) {
	h.transition(c, h.service.Withdraw, "failed to withdraw proposal")
}

func (h *ProposalHandler) transition(
	c *gin.Context,
	apply func(context.Context, domain.Principal, string) (*proposal.Proposal, error),
	failure string,
) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	p, err := apply(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, failure)
		return
	}
	c.JSON(http.StatusOK, p)
}
