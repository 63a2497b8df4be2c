package user_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/user"
	userrepo "talentbridge/marketplace-api/internal/infrastructure/repository/user"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

func newService(seed ...user.Profile) *user.Service {
	return user.NewService(userrepo.NewInMemoryRepository(seed...), zerolog.Nop())
}

func TestEnsureProfile_CreatesThenKeepsName(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	principal := domain.Principal{ID: "rec-1", Role: domain.RoleRecruiter, Name: "Ada Recruiter", Email: "ada@example.com"}
	created, err := svc.EnsureProfile(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, "Ada Recruiter", created.FullName)
	assert.Equal(t, domain.RoleRecruiter, created.Role)

	// A token without a name must not blank the stored one.
	again, err := svc.EnsureProfile(ctx, domain.Principal{ID: "rec-1", Role: domain.RoleRecruiter})
	require.NoError(t, err)
	assert.Equal(t, "Ada Recruiter", again.FullName)
	assert.Equal(t, "ada@example.com", again.Email)
}

func TestEnsureProfile_RejectsUnknownRole(t *testing.T) {
	_, err := newService().EnsureProfile(context.Background(), domain.Principal{ID: "x", Role: "admin"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestGetProfile_NotFound(t *testing.T) {
	_, err := newService().GetProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	principal := domain.Principal{ID: "tal-1", Role: domain.RoleTalent}

	name := "  Grace Talent "
	image := "https://cdn.example.com/grace.png"
	updated, err := svc.UpdateProfile(ctx, principal, user.UpdateProfileInput{FullName: &name, ProfileImage: &image})
	require.NoError(t, err)
	assert.Equal(t, "Grace Talent", updated.FullName)
	assert.Equal(t, image, updated.ProfileImage)

	bad := "not a url"
	_, err = svc.UpdateProfile(ctx, principal, user.UpdateProfileInput{ProfileImage: &bad})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestFindByID_AbsentIsNotAnError(t *testing.T) {
	ctx := context.Background()
	svc := newService(user.Profile{ID: "tal-1", FullName: "Grace", Role: domain.RoleTalent})

	info, err := svc.FindByID(ctx, "tal-1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Grace", info.FullName)

	info, err = svc.FindByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, info)
}
