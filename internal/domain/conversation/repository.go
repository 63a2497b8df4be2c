package conversation

import (
	"context"
	"time"

	"talentbridge/marketplace-api/internal/domain"
)

// Repository persists conversations.
type Repository interface {
	// Create inserts a new conversation and returns ErrDuplicate when the pair already exists.
	Create(ctx context.Context, conv *Conversation) error
	FindByID(ctx context.Context, id string) (*Conversation, error)
	FindByParticipants(ctx context.Context, p Participants) (*Conversation, error)
	// ListForUser returns conversations on the role's side for userID, excluding those userID deleted.
	ListForUser(ctx context.Context, userID string, role domain.Role) ([]*Conversation, error)
	UpdateMission(ctx context.Context, id, missionID string) error
	UpdateDisplay(ctx context.Context, id string, display Display) error
	UpdateLastMessage(ctx context.Context, id, text string, at time.Time) error
	// AddDeletedBy adds userID to the visibility-exclusion set; adding a present id is a no-op.
	AddDeletedBy(ctx context.Context, id, userID string) error
}

// MessageRepository persists messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	// ListByConversation returns messages oldest first.
	ListByConversation(ctx context.Context, conversationID string) ([]*Message, error)
	// MarkRead flips unread messages addressed to receiverID and returns how many changed.
	MarkRead(ctx context.Context, conversationID, receiverID string, seenAt time.Time) (int64, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
	CountUnreadInConversation(ctx context.Context, conversationID, receiverID string) (int64, error)
	CountConversationsWithUnread(ctx context.Context, receiverID string) (int64, error)
}
