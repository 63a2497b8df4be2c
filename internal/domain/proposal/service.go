package proposal

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
	"talentbridge/marketplace-api/internal/domain/mission"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

// Service handles proposals submitted by talents on missions.
type Service struct {
	repo          Repository
	missions      MissionReader
	conversations ConversationOpener
	validate      *validator.Validate
	log           zerolog.Logger
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository, missions MissionReader, conversations ConversationOpener, log zerolog.Logger) *Service {
	return &Service{
		repo:          repo,
		missions:      missions,
		conversations: conversations,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		log:           log.With().Str("component", "proposal-service").Logger(),
	}
}

// Submit applies the calling talent to an open mission and opens the conversation
// with the mission's recruiter.
func (s *Service) Submit(ctx context.Context, caller domain.Principal, missionID string, input SubmitInput) (*Proposal, error) {
	if !caller.Is(domain.RoleTalent) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "only talents can submit proposals", nil, "11a2b3c4-d5e6-4f70-8192-a3b4c5d6e7f8")
	}
	input.CoverLetter = strings.TrimSpace(input.CoverLetter)
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid proposal", err, "22b3c4d5-e6f7-4081-9203-b4c5d6e7f809")
	}
	if !input.Rate.IsPositive() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "rate must be greater than zero", nil, "33c4d5e6-f708-4192-a314-c5d6e7f8091a")
	}

	m, err := s.missions.Get(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if m.Status != mission.StatusOpen {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "mission is not accepting proposals", nil, "44d5e6f7-0819-42a3-b425-d6e7f8091a2b")
	}

	conv, err := s.conversations.FindOrCreate(ctx, caller, conversation.CreateInput{
		RecruiterID: &m.RecruiterID,
		MissionID:   &m.ID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Proposal{
		ID:             uuid.NewString(),
		MissionID:      m.ID,
		TalentID:       caller.ID,
		RecruiterID:    m.RecruiterID,
		CoverLetter:    input.CoverLetter,
		Rate:           input.Rate.Round(2),
		Status:         StatusPending,
		ConversationID: conv.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "a pending proposal already exists for this mission", err, "55e6f708-192a-43b4-8536-e7f8091a2b3c")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create proposal")
	}

	s.log.Info().
		Str("proposal_id", p.ID).
		Str("mission_id", p.MissionID).
		Str("talent_id", p.TalentID).
		Msg("proposal submitted")
	return p, nil
}

// ListForMission returns the proposals on a mission to its owner.
func (s *Service) ListForMission(ctx context.Context, caller domain.Principal, missionID string) ([]*Proposal, error) {
	m, err := s.missions.Get(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if m.RecruiterID != caller.ID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "only the mission owner can list its proposals", nil, "66f70819-2a3b-44c5-9647-f8091a2b3c4d")
	}
	proposals, err := s.repo.ListByMission(ctx, m.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list proposals")
	}
	return proposals, nil
}

// ListMine returns the calling talent's proposals.
func (s *Service) ListMine(ctx context.Context, caller domain.Principal) ([]*Proposal, error) {
	proposals, err := s.repo.ListByTalent(ctx, caller.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list proposals")
	}
	return proposals, nil
}

// Accept marks a pending proposal as accepted. Mission owner only.
func (s *Service) Accept(ctx context.Context, caller domain.Principal, id string) (*Proposal, error) {
	return s.transition(ctx, caller, id, StatusAccepted)
}

// Reject marks a pending proposal as rejected. Mission owner only.
func (s *Service) Reject(ctx context.Context, caller domain.Principal, id string) (*Proposal, error) {
	return s.transition(ctx, caller, id, StatusRejected)
}

// Withdraw retracts a pending proposal. Submitting talent only.
func (s *Service) Withdraw(ctx context.Context, caller domain.Principal, id string) (*Proposal, error) {
	return s.transition(ctx, caller, id, StatusWithdrawn)
}

func (s *Service) transition(ctx context.Context, caller domain.Principal, id string, to Status) (*Proposal, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "proposal not found", err, "7708192a-3b4c-45d6-a758-091a2b3c4d5e")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load proposal")
	}

	actor := p.RecruiterID
	if to == StatusWithdrawn {
		actor = p.TalentID
	}
	if caller.ID != actor {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "caller cannot change this proposal", nil, "88192a3b-4c5d-46e7-b869-1a2b3c4d5e6f")
	}
	if p.Status != StatusPending {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "proposal is no longer pending", nil, "992a3b4c-5d6e-47f8-8c7a-2b3c4d5e6f70")
	}

	now := time.Now().UTC()
	if err := s.repo.Transition(ctx, p.ID, to, now); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "proposal is no longer pending", err, "992a3b4c-5d6e-47f8-8c7a-2b3c4d5e6f70")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update proposal")
	}
	p.Status = to
	p.UpdatedAt = now
	s.log.Info().Str("proposal_id", p.ID).Str("status", string(to)).Msg("proposal updated")
	return p, nil
}
