// Package user provides the marketplace identity store: recruiter and talent profiles.
package user

import (
	"context"
	"errors"
	"time"

	"talentbridge/marketplace-api/internal/domain"
)

// Profile is the authoritative display record for a marketplace user.
type Profile struct {
	ID           string      `json:"id"`
	FullName     string      `json:"fullName"`
	Email        string      `json:"email,omitempty"`
	Role         domain.Role `json:"role"`
	ProfileImage string      `json:"profileImage,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// DisplayInfo is the subset of a profile other records snapshot for display.
type DisplayInfo struct {
	FullName     string `json:"fullName"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Display returns the display snapshot of the profile.
func (p *Profile) Display() *DisplayInfo {
	return &DisplayInfo{FullName: p.FullName, ProfileImage: p.ProfileImage}
}

// Directory resolves display information for a user id.
// Implementations return (nil, nil) when the user does not exist.
type Directory interface {
	FindByID(ctx context.Context, id string) (*DisplayInfo, error)
}

// ErrNotFound is returned by repositories when no profile matches.
var ErrNotFound = errors.New("user not found")

// Repository exposes data access for profiles.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	// CreateIfAbsent inserts the profile unless one with the same id already exists.
	CreateIfAbsent(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
}

// UpdateProfileInput carries optional profile changes.
type UpdateProfileInput struct {
	FullName     *string `json:"fullName" validate:"omitempty,min=1,max=120"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,url"`
}
