package mission

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a mission posting.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusClosed
}

var (
	ErrNotFound = errors.New("mission not found")
	// ErrStatusChanged is returned when a conditional status update finds a different current status.
	ErrStatusChanged = errors.New("mission status changed concurrently")
)

// Mission is a job posting published by a recruiter.
type Mission struct {
	ID          string          `json:"id"`
	RecruiterID string          `json:"recruiterId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Budget      decimal.Decimal `json:"budget"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateInput describes a new mission.
type CreateInput struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Budget      decimal.Decimal `json:"budget"`
}

// Filter narrows mission listings. Zero values match everything.
type Filter struct {
	RecruiterID string
	Status      Status
}

// Repository persists missions.
type Repository interface {
	Create(ctx context.Context, m *Mission) error
	FindByID(ctx context.Context, id string) (*Mission, error)
	// List returns missions matching filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Mission, error)
	// UpdateStatus moves a mission from one status to another and returns ErrStatusChanged
	// when the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) error
}
