package contract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/contract"
	"talentbridge/marketplace-api/internal/domain/conversation"
	contractrepo "talentbridge/marketplace-api/internal/infrastructure/repository/contract"
	convrepo "talentbridge/marketplace-api/internal/infrastructure/repository/conversation"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

var (
	recruiter = domain.Principal{ID: "rec-1", Role: domain.RoleRecruiter}
	talent    = domain.Principal{ID: "tal-1", Role: domain.RoleTalent}
	outsider  = domain.Principal{ID: "tal-2", Role: domain.RoleTalent}
)

func newServices() (*contract.Service, conversation.Service) {
	conversations := conversation.NewService(
		convrepo.NewInMemoryRepository(),
		convrepo.NewInMemoryMessageRepository(),
		nil,
		conversation.Settings{},
		zerolog.Nop(),
	)
	return contract.NewService(contractrepo.NewInMemoryRepository(), conversations, zerolog.Nop()), conversations
}

func sendInput() contract.SendInput {
	mission := "mission-1"
	return contract.SendInput{
		TalentID:  talent.ID,
		MissionID: &mission,
		Title:     "Backend engagement",
		Amount:    decimal.NewFromInt(12000),
		PDFURL:    "https://files.example.com/contracts/1.pdf",
	}
}

func lastMessage(t *testing.T, conversations conversation.Service, conversationID string) *conversation.Message {
	t.Helper()
	messages, err := conversations.GetMessages(context.Background(), conversationID, recruiter)
	require.NoError(t, err)
	require.NotEmpty(t, messages)
	return messages[len(messages)-1]
}

func TestSignatureFlow(t *testing.T) {
	svc, conversations := newServices()
	ctx := context.Background()

	c, err := svc.Send(ctx, recruiter, sendInput())
	require.NoError(t, err)
	assert.Equal(t, contract.StatusSent, c.Status)
	require.NotNil(t, c.MissionID)
	assert.Equal(t, "mission-1", *c.MissionID)

	sent := lastMessage(t, conversations, c.ConversationID)
	assert.Equal(t, conversation.ContractSentText, sent.Text)
	assert.True(t, sent.IsContractMessage)
	assert.Equal(t, talent.ID, sent.ReceiverID)
	require.NotNil(t, sent.ContractID)
	assert.Equal(t, c.ID, *sent.ContractID)

	// The recruiter cannot countersign before the talent signs.
	_, err = svc.Sign(ctx, recruiter, c.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	c, err = svc.Sign(ctx, talent, c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusTalentSigned, c.Status)
	assert.NotNil(t, c.TalentSignedAt)
	assert.Equal(t, conversation.ContractTalentSignedText, lastMessage(t, conversations, c.ConversationID).Text)

	_, err = svc.Sign(ctx, talent, c.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	c, err = svc.Sign(ctx, recruiter, c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusSigned, c.Status)
	assert.NotNil(t, c.RecruiterSignedAt)
	assert.Equal(t, conversation.ContractFullySignedText, lastMessage(t, conversations, c.ConversationID).Text)

	// Each event is unread for its receiver.
	unread, err := conversations.GetUnreadCount(ctx, talent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)
}

func TestAccessRules(t *testing.T) {
	svc, _ := newServices()
	ctx := context.Background()

	_, err := svc.Send(ctx, talent, sendInput())
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	bad := sendInput()
	bad.PDFURL = "not a url"
	_, err = svc.Send(ctx, recruiter, bad)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	free := sendInput()
	free.Amount = decimal.Zero
	_, err = svc.Send(ctx, recruiter, free)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	c, err := svc.Send(ctx, recruiter, sendInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, outsider, c.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
	_, err = svc.Sign(ctx, outsider, c.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
	_, err = svc.Get(ctx, talent, "missing")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	mine, err := svc.ListMine(ctx, talent)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := svc.ListMine(ctx, outsider)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

// unreachableMessenger opens conversations but fails to post contract events.
type unreachableMessenger struct {
	conversation.Service
	posts int
}

func (m *unreachableMessenger) SendContractMessage(ctx context.Context, id, contractID, pdfURL, senderID string, isSigned bool) (*conversation.Message, error) {
	m.posts++
	return nil, errors.New("message store unavailable")
}

func TestUndeliveredEventsKeepContractFlowing(t *testing.T) {
	_, conversations := newServices()
	messenger := &unreachableMessenger{Service: conversations}
	repo := contractrepo.NewInMemoryRepository()
	svc := contract.NewService(repo, messenger, zerolog.Nop())
	ctx := context.Background()

	c, err := svc.Send(ctx, recruiter, sendInput())
	require.NoError(t, err)
	assert.Equal(t, contract.StatusSent, c.Status)

	stored, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusSent, stored.Status)

	c, err = svc.Sign(ctx, talent, c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusTalentSigned, c.Status)
	assert.Equal(t, 2, messenger.posts)

	mine, err := svc.ListMine(ctx, recruiter)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
