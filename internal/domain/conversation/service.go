package conversation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/user"
	"talentbridge/marketplace-api/internal/infrastructure/metrics"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

// Service describes the conversation and messaging use cases.
type Service interface {
	FindOrCreate(ctx context.Context, caller domain.Principal, input CreateInput) (*Conversation, error)
	FindAll(ctx context.Context, caller domain.Principal) ([]*Conversation, error)
	FindOne(ctx context.Context, id string, caller domain.Principal) (*Conversation, error)
	SendMessage(ctx context.Context, id string, caller domain.Principal, text string) (*Message, error)
	SendContractMessage(ctx context.Context, id, contractID, pdfURL, senderID string, isSigned bool) (*Message, error)
	GetMessages(ctx context.Context, id string, caller domain.Principal) ([]*Message, error)
	MarkConversationAsRead(ctx context.Context, id string, caller domain.Principal) (int64, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	GetConversationUnreadCount(ctx context.Context, id string, caller domain.Principal) (int64, error)
	GetConversationsWithUnreadCount(ctx context.Context, userID string) (int64, error)
	DeleteConversation(ctx context.Context, id string, caller domain.Principal) error
}

// Settings tunes the service.
type Settings struct {
	// RefreshConcurrency bounds concurrent display refreshes while listing.
	RefreshConcurrency int
	// Preview renders message text for debug logs. Text is not logged when nil.
	Preview func(text string) string
}

type service struct {
	conversations Repository
	messages      MessageRepository
	directory     user.Directory
	settings      Settings
	log           zerolog.Logger
	now           func() time.Time
}

// NewService wires the conversation service with its stores and the user directory.
func NewService(conversations Repository, messages MessageRepository, directory user.Directory, settings Settings, log zerolog.Logger) Service {
	if settings.RefreshConcurrency <= 0 {
		settings.RefreshConcurrency = 8
	}
	return &service{
		conversations: conversations,
		messages:      messages,
		directory:     directory,
		settings:      settings,
		log:           log.With().Str("component", "conversation-service").Logger(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) FindOrCreate(ctx context.Context, caller domain.Principal, input CreateInput) (*Conversation, error) {
	participants, err := ResolveParticipants(caller, input)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), err, "3f1b7c2a-8d4e-4a6b-9c1d-2e3f4a5b6c7d")
	}
	missionID := trimmed(input.MissionID)

	existing, err := s.conversations.FindByParticipants(ctx, participants)
	if err == nil {
		return s.reuse(ctx, existing, missionID)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up conversation")
	}

	now := s.now()
	conv := &Conversation{
		ID:          uuid.NewString(),
		RecruiterID: participants.RecruiterID,
		TalentID:    participants.TalentID,
		DeletedBy:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if missionID != "" {
		conv.MissionID = &missionID
	}
	conv.ApplyDisplay(s.lookupDisplay(ctx, conv, Display{}))

	if err := s.conversations.Create(ctx, conv); err != nil {
		if !errors.Is(err, ErrDuplicate) {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
		}
		// A concurrent caller created the pair first; continue with their record.
		metrics.ConversationCreateRacesTotal.Inc()
		s.log.Debug().
			Str("recruiter_id", participants.RecruiterID).
			Str("talent_id", participants.TalentID).
			Msg("conversation insert lost race, reusing existing record")

		winner, findErr := s.conversations.FindByParticipants(ctx, participants)
		if findErr != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, findErr, "failed to load concurrently created conversation")
		}
		return s.reuse(ctx, winner, missionID)
	}

	metrics.ConversationsCreatedTotal.Inc()
	s.log.Info().
		Str("conversation_id", conv.ID).
		Str("recruiter_id", conv.RecruiterID).
		Str("talent_id", conv.TalentID).
		Msg("conversation created")
	return conv, nil
}

// reuse applies the found-path logic: last-write-wins mission update, then display refresh.
func (s *service) reuse(ctx context.Context, conv *Conversation, missionID string) (*Conversation, error) {
	if missionID != "" && (conv.MissionID == nil || *conv.MissionID != missionID) {
		if err := s.conversations.UpdateMission(ctx, conv.ID, missionID); err != nil {
			return nil, s.storeError(ctx, err, "failed to update conversation mission", "4a2c8d3b-9e5f-4b7c-8d2e-3f4a5b6c7d8e")
		}
		conv.MissionID = &missionID
		conv.UpdatedAt = s.now()
	}
	s.refreshDisplayFields(ctx, conv)
	return conv, nil
}

func (s *service) FindAll(ctx context.Context, caller domain.Principal) ([]*Conversation, error) {
	if !caller.Role.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, ErrUnsupportedRole.Error(), ErrUnsupportedRole, "5b3d9e4c-0f6a-4c8d-9e3f-4a5b6c7d8e9f")
	}

	conversations, err := s.conversations.ListForUser(ctx, caller.ID, caller.Role)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}

	visible := conversations[:0]
	for _, conv := range conversations {
		if !conv.DeletedFor(caller.ID) {
			visible = append(visible, conv)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i].ActivityAt(), visible[j].ActivityAt()
		if a.Equal(b) {
			return visible[i].ID < visible[j].ID
		}
		return a.After(b)
	})

	var g errgroup.Group
	g.SetLimit(s.settings.RefreshConcurrency)
	for _, conv := range visible {
		conv := conv
		g.Go(func() error {
			s.refreshDisplayFields(ctx, conv)
			return nil
		})
	}
	_ = g.Wait()

	return visible, nil
}

func (s *service) FindOne(ctx context.Context, id string, caller domain.Principal) (*Conversation, error) {
	conv, err := s.conversations.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, err, "conversation not found", "6c4e0f5d-1a7b-4d9e-8f4a-5b6c7d8e9f0a")
	}
	if !conv.HasParticipant(caller.ID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "caller is not a participant of this conversation", nil, "7d5f1a6e-2b8c-4e0f-9a5b-6c7d8e9f0a1b")
	}
	s.refreshDisplayFields(ctx, conv)
	return conv, nil
}

func (s *service) SendMessage(ctx context.Context, id string, caller domain.Principal, text string) (*Message, error) {
	conv, err := s.FindOne(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message text is required", nil, "8e6a2b7f-3c9d-4f1a-8b6c-7d8e9f0a1b2c")
	}
	receiverID, _ := conv.Counterpart(caller.ID)

	msg := &Message{
		ConversationID: conv.ID,
		SenderID:       caller.ID,
		ReceiverID:     receiverID,
		Text:           text,
	}
	if err := s.append(ctx, conv, msg); err != nil {
		return nil, err
	}
	metrics.RecordMessageSent("user")
	return msg, nil
}

func (s *service) SendContractMessage(ctx context.Context, id, contractID, pdfURL, senderID string, isSigned bool) (*Message, error) {
	conv, err := s.conversations.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, err, "conversation not found", "9f7b3c8a-4d0e-4a2b-9c7d-8e9f0a1b2c3d")
	}
	receiverID, ok := conv.Counterpart(senderID)
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "sender is not a participant of this conversation", nil, "0a8c4d9b-5e1f-4b3c-8d8e-9f0a1b2c3d4e")
	}

	msg := &Message{
		ConversationID:    conv.ID,
		SenderID:          senderID,
		ReceiverID:        receiverID,
		Text:              ContractEventText(isSigned, senderID == conv.RecruiterID),
		ContractID:        optional(contractID),
		PDFURL:            optional(pdfURL),
		IsContractMessage: true,
	}
	if err := s.append(ctx, conv, msg); err != nil {
		return nil, err
	}
	metrics.RecordMessageSent("contract")
	return msg, nil
}

// ContractEventText selects the status line for a contract event message.
func ContractEventText(isSigned, senderIsRecruiter bool) string {
	switch {
	case !isSigned:
		return ContractSentText
	case senderIsRecruiter:
		return ContractFullySignedText
	default:
		return ContractTalentSignedText
	}
}

// append persists msg as unread and moves the conversation's last-message cache.
func (s *service) append(ctx context.Context, conv *Conversation, msg *Message) error {
	now := s.now()
	msg.ID = ulid.Make().String()
	msg.IsRead = false
	msg.SeenAt = nil
	msg.CreatedAt = now

	if err := s.messages.Create(ctx, msg); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist message")
	}
	if err := s.conversations.UpdateLastMessage(ctx, conv.ID, msg.Text, now); err != nil {
		return s.storeError(ctx, err, "failed to update conversation last message", "1b9d5e0c-6f2a-4c4d-9e9f-0a1b2c3d4e5f")
	}
	text := msg.Text
	conv.LastMessageText = &text
	conv.LastMessageAt = &now
	conv.UpdatedAt = now

	event := s.log.Debug().
		Str("conversation_id", conv.ID).
		Str("message_id", msg.ID).
		Str("sender_id", msg.SenderID).
		Bool("contract", msg.IsContractMessage)
	if s.settings.Preview != nil {
		event = event.Str("preview", s.settings.Preview(msg.Text))
	}
	event.Msg("message appended")
	return nil
}

func (s *service) GetMessages(ctx context.Context, id string, caller domain.Principal) ([]*Message, error) {
	conv, err := s.FindOne(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	messages, err := s.messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func (s *service) MarkConversationAsRead(ctx context.Context, id string, caller domain.Principal) (int64, error) {
	conv, err := s.FindOne(ctx, id, caller)
	if err != nil {
		return 0, err
	}
	updated, err := s.messages.MarkRead(ctx, conv.ID, caller.ID, s.now())
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to mark messages as read")
	}
	metrics.RecordMessagesRead(updated)
	return updated, nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.messages.CountUnread(ctx, userID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count unread messages")
	}
	return count, nil
}

func (s *service) GetConversationUnreadCount(ctx context.Context, id string, caller domain.Principal) (int64, error) {
	conv, err := s.FindOne(ctx, id, caller)
	if err != nil {
		return 0, err
	}
	count, err := s.messages.CountUnreadInConversation(ctx, conv.ID, caller.ID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count unread messages")
	}
	return count, nil
}

func (s *service) GetConversationsWithUnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.messages.CountConversationsWithUnread(ctx, userID)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count conversations with unread messages")
	}
	return count, nil
}

func (s *service) DeleteConversation(ctx context.Context, id string, caller domain.Principal) error {
	conv, err := s.FindOne(ctx, id, caller)
	if err != nil {
		return err
	}
	if conv.DeletedFor(caller.ID) {
		return nil
	}
	if err := s.conversations.AddDeletedBy(ctx, conv.ID, caller.ID); err != nil {
		return s.storeError(ctx, err, "failed to delete conversation", "2c0e6f1d-7a3b-4d5e-8f0a-1b2c3d4e5f6a")
	}
	return nil
}

// refreshDisplayFields fills missing cached names and images from the directory.
// It is best effort: lookup or persistence failures leave the fields as they were.
func (s *service) refreshDisplayFields(ctx context.Context, conv *Conversation) {
	current := conv.Display()
	if !current.Stale() {
		return
	}
	next := s.lookupDisplay(ctx, conv, current)
	if displayEqual(current, next) {
		return
	}
	if err := s.conversations.UpdateDisplay(ctx, conv.ID, next); err != nil {
		metrics.DisplayRefreshFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("persist refreshed display fields")
		return
	}
	conv.ApplyDisplay(next)
}

// lookupDisplay returns current with blank fields filled from the directory where possible.
func (s *service) lookupDisplay(ctx context.Context, conv *Conversation, current Display) Display {
	next := current
	if blank(current.RecruiterName) || blank(current.RecruiterProfileImage) {
		if info := s.lookup(ctx, conv.RecruiterID); info != nil {
			next.RecruiterName = fill(current.RecruiterName, info.FullName)
			next.RecruiterProfileImage = fill(current.RecruiterProfileImage, info.ProfileImage)
		}
	}
	if blank(current.TalentName) || blank(current.TalentProfileImage) {
		if info := s.lookup(ctx, conv.TalentID); info != nil {
			next.TalentName = fill(current.TalentName, info.FullName)
			next.TalentProfileImage = fill(current.TalentProfileImage, info.ProfileImage)
		}
	}
	return next
}

func (s *service) lookup(ctx context.Context, userID string) *user.DisplayInfo {
	if s.directory == nil {
		return nil
	}
	info, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		metrics.DisplayRefreshFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("user_id", userID).Msg("user directory lookup failed")
		return nil
	}
	return info
}

func (s *service) storeError(ctx context.Context, err error, message, errorUUID string) error {
	if errors.Is(err, ErrNotFound) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, message, err, errorUUID)
	}
	return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, message)
}

func fill(current *string, candidate string) *string {
	if !blank(current) || candidate == "" {
		return current
	}
	return &candidate
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func displayEqual(a, b Display) bool {
	return value(a.RecruiterName) == value(b.RecruiterName) &&
		value(a.RecruiterProfileImage) == value(b.RecruiterProfileImage) &&
		value(a.TalentName) == value(b.TalentName) &&
		value(a.TalentProfileImage) == value(b.TalentProfileImage)
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
