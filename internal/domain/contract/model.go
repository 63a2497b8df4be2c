package contract

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/conversation"
)

// Status is the signature state of a contract.
type Status string

const (
	// StatusSent means the recruiter has sent the contract and nobody has signed yet.
	StatusSent Status = "sent"
	// StatusTalentSigned means the talent signed and the recruiter's countersignature is pending.
	StatusTalentSigned Status = "talent_signed"
	// StatusSigned means both parties signed.
	StatusSigned Status = "signed"
)

var (
	ErrNotFound      = errors.New("contract not found")
	ErrStatusChanged = errors.New("contract status changed concurrently")
)

// Contract is an agreement sent by a recruiter to a talent over their conversation.
type Contract struct {
	ID                string          `json:"id"`
	MissionID         *string         `json:"missionId,omitempty"`
	RecruiterID       string          `json:"recruiterId"`
	TalentID          string          `json:"talentId"`
	ConversationID    string          `json:"conversationId"`
	Title             string          `json:"title"`
	Amount            decimal.Decimal `json:"amount"`
	PDFURL            string          `json:"pdfUrl"`
	Status            Status          `json:"status"`
	TalentSignedAt    *time.Time      `json:"talentSignedAt,omitempty"`
	RecruiterSignedAt *time.Time      `json:"recruiterSignedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// SendInput describes a contract a recruiter sends to a talent.
type SendInput struct {
	TalentID  string          `json:"talentId" validate:"required"`
	MissionID *string         `json:"missionId"`
	Title     string          `json:"title" validate:"required,min=3,max=200"`
	Amount    decimal.Decimal `json:"amount"`
	PDFURL    string          `json:"pdfUrl" validate:"required,url"`
}

// Repository persists contracts.
type Repository interface {
	Create(ctx context.Context, c *Contract) error
	FindByID(ctx context.Context, id string) (*Contract, error)
	// ListForUser returns contracts where userID is on the role's side, newest first.
	ListForUser(ctx context.Context, userID string, role domain.Role) ([]*Contract, error)
	// Transition stores c's status and signature times if the stored status is still from.
	Transition(ctx context.Context, c *Contract, from Status) error
}

// Messenger posts contract events into conversations.
type Messenger interface {
	FindOrCreate(ctx context.Context, caller domain.Principal, input conversation.CreateInput) (*conversation.Conversation, error)
	SendContractMessage(ctx context.Context, id, contractID, pdfURL, senderID string, isSigned bool) (*conversation.Message, error)
}
