package contract

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/conversation"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

// Service drives the contract signature flow and announces each step in the conversation.
type Service struct {
	repo      Repository
	messenger Messenger
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository, messenger Messenger, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		messenger: messenger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       log.With().Str("component", "contract-service").Logger(),
	}
}

// Send creates a contract from the calling recruiter to a talent and posts
// the "sent" event into their conversation.
func (s *Service) Send(ctx context.Context, caller domain.Principal, input SendInput) (*Contract, error) {
	if !caller.Is(domain.RoleRecruiter) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "only recruiters can send contracts", nil, "a1b2c3d4-0001-4e5f-8a9b-0c1d2e3f4a5b")
	}
	input.TalentID = strings.TrimSpace(input.TalentID)
	input.Title = strings.TrimSpace(input.Title)
	input.PDFURL = strings.TrimSpace(input.PDFURL)
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid contract", err, "a1b2c3d4-0002-4e5f-8a9b-0c1d2e3f4a5b")
	}
	if !input.Amount.IsPositive() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "amount must be greater than zero", nil, "a1b2c3d4-0003-4e5f-8a9b-0c1d2e3f4a5b")
	}

	conv, err := s.messenger.FindOrCreate(ctx, caller, conversation.CreateInput{
		TalentID:  &input.TalentID,
		MissionID: input.MissionID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &Contract{
		ID:             uuid.NewString(),
		MissionID:      conv.MissionID,
		RecruiterID:    conv.RecruiterID,
		TalentID:       conv.TalentID,
		ConversationID: conv.ID,
		Title:          input.Title,
		Amount:         input.Amount.Round(2),
		PDFURL:         input.PDFURL,
		Status:         StatusSent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create contract")
	}

	s.announce(ctx, c, caller.ID, false)
	s.log.Info().Str("contract_id", c.ID).Str("conversation_id", conv.ID).Msg("contract sent")
	return c, nil
}

// Sign records the caller's signature. The talent signs first, then the recruiter countersigns.
func (s *Service) Sign(ctx context.Context, caller domain.Principal, id string) (*Contract, error) {
	c, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	from := c.Status
	now := time.Now().UTC()
	switch {
	case caller.ID == c.TalentID && c.Status == StatusSent:
		c.Status = StatusTalentSigned
		c.TalentSignedAt = &now
	case caller.ID == c.RecruiterID && c.Status == StatusTalentSigned:
		c.Status = StatusSigned
		c.RecruiterSignedAt = &now
	default:
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "contract cannot be signed by the caller in its current state", nil, "a1b2c3d4-0004-4e5f-8a9b-0c1d2e3f4a5b")
	}
	c.UpdatedAt = now

	if err := s.repo.Transition(ctx, c, from); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "contract was updated concurrently", err, "a1b2c3d4-0005-4e5f-8a9b-0c1d2e3f4a5b")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to sign contract")
	}

	s.announce(ctx, c, caller.ID, true)
	s.log.Info().Str("contract_id", c.ID).Str("status", string(c.Status)).Msg("contract signed")
	return c, nil
}

// announce posts the contract event into the conversation. The contract is
// already stored, so a failed post is logged and does not fail the call.
func (s *Service) announce(ctx context.Context, c *Contract, senderID string, isSigned bool) {
	if _, err := s.messenger.SendContractMessage(ctx, c.ConversationID, c.ID, c.PDFURL, senderID, isSigned); err != nil {
		s.log.Error().Err(err).
			Str("contract_id", c.ID).
			Str("conversation_id", c.ConversationID).
			Str("status", string(c.Status)).
			Msg("contract event message not delivered")
	}
}

// Get returns a contract to one of its parties.
func (s *Service) Get(ctx context.Context, caller domain.Principal, id string) (*Contract, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "contract not found", err, "a1b2c3d4-0006-4e5f-8a9b-0c1d2e3f4a5b")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load contract")
	}
	if caller.ID != c.RecruiterID && caller.ID != c.TalentID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "caller is not a party to this contract", nil, "a1b2c3d4-0007-4e5f-8a9b-0c1d2e3f4a5b")
	}
	return c, nil
}

// ListMine returns the caller's contracts on their side of the marketplace.
func (s *Service) ListMine(ctx context.Context, caller domain.Principal) ([]*Contract, error) {
	if !caller.Role.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "role must be talent or recruiter", nil, "a1b2c3d4-0008-4e5f-8a9b-0c1d2e3f4a5b")
	}
	contracts, err := s.repo.ListForUser(ctx, caller.ID, caller.Role)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list contracts")
	}
	return contracts, nil
}
