package proposal

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/conversation"
	"talentbridge/marketplace-api/internal/domain/mission"
)

// Status is the lifecycle state of a proposal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

var (
	ErrNotFound = errors.New("proposal not found")
	// ErrDuplicate is returned when the talent already has a pending proposal on the mission.
	ErrDuplicate = errors.New("pending proposal already exists")
	// ErrStatusChanged is returned when a conditional transition finds a non-pending proposal.
	ErrStatusChanged = errors.New("proposal status changed concurrently")
)

// Proposal is a talent's application to a mission.
type Proposal struct {
	ID             string          `json:"id"`
	MissionID      string          `json:"missionId"`
	TalentID       string          `json:"talentId"`
	RecruiterID    string          `json:"recruiterId"`
	CoverLetter    string          `json:"coverLetter"`
	Rate           decimal.Decimal `json:"rate"`
	Status         Status          `json:"status"`
	ConversationID string          `json:"conversationId"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// SubmitInput is the talent-provided part of a proposal.
type SubmitInput struct {
	CoverLetter string          `json:"coverLetter" validate:"required,min=10,max=5000"`
	Rate        decimal.Decimal `json:"rate"`
}

// Repository persists proposals.
type Repository interface {
	// Create returns ErrDuplicate when a pending proposal exists for the same mission and talent.
	Create(ctx context.Context, p *Proposal) error
	FindByID(ctx context.Context, id string) (*Proposal, error)
	ListByMission(ctx context.Context, missionID string) ([]*Proposal, error)
	ListByTalent(ctx context.Context, talentID string) ([]*Proposal, error)
	// Transition moves a pending proposal to status, returning ErrStatusChanged when it is no longer pending.
	Transition(ctx context.Context, id string, to Status, at time.Time) error
}

// MissionReader loads missions.
type MissionReader interface {
	Get(ctx context.Context, id string) (*mission.Mission, error)
}

// ConversationOpener opens or reuses the recruiter-talent conversation.
type ConversationOpener interface {
	FindOrCreate(ctx context.Context, caller domain.Principal, input conversation.CreateInput) (*conversation.Conversation, error)
}
