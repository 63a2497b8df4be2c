package mission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

// Service manages mission postings.
type Service struct {
	repo     Repository
	validate *validator.Validate
	log      zerolog.Logger
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "mission-service").Logger(),
	}
}

// Create publishes a new open mission owned by the calling recruiter.
func (s *Service) Create(ctx context.Context, caller domain.Principal, input CreateInput) (*Mission, error) {
	if !caller.Is(domain.RoleRecruiter) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "only recruiters can publish missions", nil, "d4a1f6c2-7b3e-4e9a-8c5d-1f2e3a4b5c6d")
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid mission", err, "e5b2a7d3-8c4f-4f0b-9d6e-2a3b4c5d6e7f")
	}
	if !input.Budget.IsPositive() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "budget must be greater than zero", nil, "f6c3b8e4-9d5a-4a1c-8e7f-3b4c5d6e7f8a")
	}

	now := time.Now().UTC()
	m := &Mission{
		ID:          uuid.NewString(),
		RecruiterID: caller.ID,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget.Round(2),
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create mission")
	}
	s.log.Info().Str("mission_id", m.ID).Str("recruiter_id", m.RecruiterID).Msg("mission created")
	return m, nil
}

// Get returns a mission by id. Missions are public to every marketplace user.
func (s *Service) Get(ctx context.Context, id string) (*Mission, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "mission not found", err, "a7d4c9f5-0e6b-4b2d-9f8a-4c5d6e7f8a9b")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load mission")
	}
	return m, nil
}

// List returns missions matching filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Mission, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "unknown mission status", nil, "b8e5d0a6-1f7c-4c3e-8a9b-5d6e7f8a9b0c")
	}
	missions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list missions")
	}
	return missions, nil
}

// Close stops a mission from accepting proposals. Closing a closed mission is a no-op.
func (s *Service) Close(ctx context.Context, caller domain.Principal, id string) (*Mission, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.RecruiterID != caller.ID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "only the owning recruiter can close the mission", nil, "c9f6e1b7-2a8d-4d4f-9b0c-6e7f8a9b0c1d")
	}
	if m.Status == StatusClosed {
		return m, nil
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, m.ID, StatusOpen, StatusClosed, now); err != nil && !errors.Is(err, ErrStatusChanged) {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to close mission")
	}
	m.Status = StatusClosed
	m.UpdatedAt = now
	return m, nil
}
