package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

// Service persists and resolves marketplace profiles. It also serves as the local Directory.
type Service struct {
	repo     Repository
	validate *validator.Validate
	log      zerolog.Logger
}

var _ Directory = (*Service)(nil)

// NewService constructs a Service with required dependencies.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "user-service").Logger(),
	}
}

// EnsureProfile makes sure the caller has a stored profile and returns it.
// Identity attributes from the principal refresh the stored ones but never blank them.
func (s *Service) EnsureProfile(ctx context.Context, principal domain.Principal) (*Profile, error) {
	if strings.TrimSpace(principal.ID) == "" || !principal.Role.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "principal id and marketplace role are required", nil, "6a0c2f4e-91d3-4c55-8b1e-2d7f0a9c3e11")
	}

	now := time.Now().UTC()
	candidate := &Profile{
		ID:        principal.ID,
		FullName:  strings.TrimSpace(principal.Name),
		Email:     strings.TrimSpace(principal.Email),
		Role:      principal.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateIfAbsent(ctx, candidate); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create profile")
	}

	stored, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load profile")
	}

	changed := false
	if candidate.FullName != "" && stored.FullName != candidate.FullName {
		stored.FullName = candidate.FullName
		changed = true
	}
	if candidate.Email != "" && stored.Email != candidate.Email {
		stored.Email = candidate.Email
		changed = true
	}
	if stored.Role != principal.Role {
		stored.Role = principal.Role
		changed = true
	}
	if changed {
		stored.UpdatedAt = now
		if err := s.repo.Update(ctx, stored); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to refresh profile")
		}
	}
	return stored, nil
}

// GetProfile returns the profile for id.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "user not found", err, "0f7e5b1a-3c2d-4e8f-9a6b-5d4c3b2a1f0e")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load profile")
	}
	return profile, nil
}

// UpdateProfile applies caller-provided changes to their own profile.
func (s *Service) UpdateProfile(ctx context.Context, principal domain.Principal, input UpdateProfileInput) (*Profile, error) {
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid profile update", err, "c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e5f")
	}

	profile, err := s.EnsureProfile(ctx, principal)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.ProfileImage != nil {
		profile.ProfileImage = strings.TrimSpace(*input.ProfileImage)
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update profile")
	}
	return profile, nil
}

// FindByID implements Directory against the local store.
func (s *Service) FindByID(ctx context.Context, id string) (*DisplayInfo, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile.Display(), nil
}
