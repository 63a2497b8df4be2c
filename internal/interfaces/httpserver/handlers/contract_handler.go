package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/contract"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/requests"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/responses"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

type ContractService interface {
	Send(ctx context.Context, caller domain.Principal, input contract.SendInput) (*contract.Contract, error)
	Sign(ctx context.Context, caller domain.Principal, id string) (*contract.Contract, error)
	Get(ctx context.Context, caller domain.Principal, id string) (*contract.Contract, error)
	ListMine(ctx context.Context, caller domain.Principal) ([]*contract.Contract, error)
}

// ContractHandler serves contracts and their signature flow.
type ContractHandler struct {
	service ContractService
	log     zerolog.Logger
}

func NewContractHandler(service ContractService, log zerolog.Logger) *ContractHandler {
	return &ContractHandler{service: service, log: log.With().Str("handler", "contract").Logger()}
}

// Send handles POST /v1/contracts
// @Summary Send a contract to a talent
// @Description Posts a contract event message into the recruiter/talent conversation.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body requests.SendContractRequest true "Contract"
// @Success 201 {object} contract.Contract
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /v1/contracts [post]
func (h *ContractHandler) Send(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req requests.SendContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "a6b7c8d9-6000-4f0a-9b2c-3d4e5f6a7b8c")
		return
	}
	ct, err := h.service.Send(c.Request.Context(), caller, req.ToInput())
	if err != nil {
		responses.HandleError(c, err, "failed to send contract")
		return
	}
	c.JSON(http.StatusCreated, ct)
}

// ListMine handles GET /v1/contracts
// @Summary List the caller's contracts
// @Tags Contracts
// @Produce json
// @Success 200 {array} contract.Contract
// @Router /v1/contracts [get]
func (h *ContractHandler) ListMine(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	list, err := h.service.ListMine(c.Request.Context(), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to list contracts")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get handles GET /v1/contracts/:id
// @Summary Get a contract
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} contract.Contract
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/contracts/{id} [get]
func (h *ContractHandler) Get(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	ct, err := h.service.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get contract")
		return
	}
	c.JSON(http.StatusOK, ct)
}

// Sign handles POST /v1/contracts/:id/sign
// @Summary Sign a contract
// @Description Talent signs first, the recruiter countersigns.
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} contract.Contract
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/contracts/{id}/sign [post]
func (h *ContractHandler) Sign(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	ct, err := h.service.Sign(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to sign contract")
		return
	}
	c.JSON(http.StatusOK, ct)
}
