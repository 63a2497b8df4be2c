package handlers

import (
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain/conversation"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Conversation *ConversationHandler
	User         *UserHandler
	Mission      *MissionHandler
	Proposal     *ProposalHandler
	Contract     *ContractHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	conversations conversation.Service,
	users UserService,
	missions MissionService,
	proposals ProposalService,
	contracts ContractService,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Conversation: NewConversationHandler(conversations, log),
		User:         NewUserHandler(users, log),
		Mission:      NewMissionHandler(missions, log),
		Proposal:     NewProposalHandler(proposals, log),
		Contract:     NewContractHandler(contracts, log),
	}
}
