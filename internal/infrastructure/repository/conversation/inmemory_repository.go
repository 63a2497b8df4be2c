package conversation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"talentbridge/marketplace-api/internal/domain"
	domainconversation "talentbridge/marketplace-api/internal/domain/conversation"
)

// InMemoryRepository keeps conversations in process memory. It enforces the
// same unique (recruiter, talent) constraint as the Mongo index.
type InMemoryRepository struct {
	mu            sync.RWMutex
	conversations map[string]domainconversation.Conversation
	byPair        map[domainconversation.Participants]string
}

var _ domainconversation.Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository returns an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		conversations: make(map[string]domainconversation.Conversation),
		byPair:        make(map[domainconversation.Participants]string),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, conv *domainconversation.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pair := domainconversation.Participants{RecruiterID: conv.RecruiterID, TalentID: conv.TalentID}
	if _, ok := r.byPair[pair]; ok {
		return fmt.Errorf("insert conversation: %w", domainconversation.ErrDuplicate)
	}
	r.conversations[conv.ID] = cloneConversation(*conv)
	r.byPair[pair] = conv.ID
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*domainconversation.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, domainconversation.ErrNotFound
	}
	out := cloneConversation(conv)
	return &out, nil
}

func (r *InMemoryRepository) FindByParticipants(ctx context.Context, p domainconversation.Participants) (*domainconversation.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[p]
	if !ok {
		return nil, domainconversation.ErrNotFound
	}
	out := cloneConversation(r.conversations[id])
	return &out, nil
}

func (r *InMemoryRepository) ListForUser(ctx context.Context, userID string, role domain.Role) ([]*domainconversation.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domainconversation.Conversation, 0)
	for _, conv := range r.conversations {
		side := conv.TalentID
		if role == domain.RoleRecruiter {
			side = conv.RecruiterID
		}
		if side != userID || conv.DeletedFor(userID) {
			continue
		}
		out := cloneConversation(conv)
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ActivityAt().After(result[j].ActivityAt())
	})
	return result, nil
}

func (r *InMemoryRepository) UpdateMission(ctx context.Context, id, missionID string) error {
	return r.update(id, func(conv *domainconversation.Conversation) {
		conv.MissionID = &missionID
		conv.UpdatedAt = time.Now().UTC()
	})
}

func (r *InMemoryRepository) UpdateDisplay(ctx context.Context, id string, display domainconversation.Display) error {
	return r.update(id, func(conv *domainconversation.Conversation) {
		conv.ApplyDisplay(display)
	})
}

func (r *InMemoryRepository) UpdateLastMessage(ctx context.Context, id, text string, at time.Time) error {
	return r.update(id, func(conv *domainconversation.Conversation) {
		conv.LastMessageText = &text
		conv.LastMessageAt = &at
		conv.UpdatedAt = at
	})
}

func (r *InMemoryRepository) AddDeletedBy(ctx context.Context, id, userID string) error {
	return r.update(id, func(conv *domainconversation.Conversation) {
		if !conv.DeletedFor(userID) {
			conv.DeletedBy = append(conv.DeletedBy, userID)
		}
	})
}

func (r *InMemoryRepository) update(id string, apply func(conv *domainconversation.Conversation)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return domainconversation.ErrNotFound
	}
	apply(&conv)
	r.conversations[id] = cloneConversation(conv)
	return nil
}

func cloneConversation(conv domainconversation.Conversation) domainconversation.Conversation {
	conv.DeletedBy = append([]string{}, conv.DeletedBy...)
	return conv
}

// InMemoryMessageRepository keeps messages in process memory.
type InMemoryMessageRepository struct {
	mu       sync.RWMutex
	messages []domainconversation.Message
}

var _ domainconversation.MessageRepository = (*InMemoryMessageRepository)(nil)

// NewInMemoryMessageRepository returns an empty message repository.
func NewInMemoryMessageRepository() *InMemoryMessageRepository {
	return &InMemoryMessageRepository{}
}

func (r *InMemoryMessageRepository) Create(ctx context.Context, msg *domainconversation.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, *msg)
	return nil
}

func (r *InMemoryMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*domainconversation.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domainconversation.Message, 0)
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID {
			m := msg
			result = append(result, &m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryMessageRepository) MarkRead(ctx context.Context, conversationID, receiverID string, seenAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for i := range r.messages {
		msg := &r.messages[i]
		if msg.ConversationID != conversationID || msg.ReceiverID != receiverID || msg.IsRead {
			continue
		}
		at := seenAt
		msg.IsRead = true
		msg.SeenAt = &at
		updated++
	}
	return updated, nil
}

func (r *InMemoryMessageRepository) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	return r.count(func(msg domainconversation.Message) bool {
		return msg.ReceiverID == receiverID && !msg.IsRead
	}), nil
}

func (r *InMemoryMessageRepository) CountUnreadInConversation(ctx context.Context, conversationID, receiverID string) (int64, error) {
	return r.count(func(msg domainconversation.Message) bool {
		return msg.ConversationID == conversationID && msg.ReceiverID == receiverID && !msg.IsRead
	}), nil
}

func (r *InMemoryMessageRepository) CountConversationsWithUnread(ctx context.Context, receiverID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, msg := range r.messages {
		if msg.ReceiverID == receiverID && !msg.IsRead {
			seen[msg.ConversationID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r *InMemoryMessageRepository) count(match func(msg domainconversation.Message) bool) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, msg := range r.messages {
		if match(msg) {
			n++
		}
	}
	return n
}
