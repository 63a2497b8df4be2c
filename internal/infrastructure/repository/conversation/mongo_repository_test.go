package conversation

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"talentbridge/marketplace-api/internal/domain"
	domainconversation "talentbridge/marketplace-api/internal/domain/conversation"
	"talentbridge/marketplace-api/internal/infrastructure/mongodb"
)

// mongoTestDB connects to MONGODB_TEST_URI and returns a throwaway database.
func mongoTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         uri,
		Database:    "marketplace_test_" + uuid.NewString()[:8],
		MaxPoolSize: 5,
	})
	require.NoError(t, err)
	require.NoError(t, mongodb.EnsureIndexes(ctx, db, zerolog.Nop()))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func newConversation(recruiterID, talentID string) *domainconversation.Conversation {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domainconversation.Conversation{
		ID:          uuid.NewString(),
		RecruiterID: recruiterID,
		TalentID:    talentID,
		DeletedBy:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMongoRepository_UniquePair(t *testing.T) {
	repo := NewMongoRepository(mongoTestDB(t))
	ctx := context.Background()

	first := newConversation("rec-1", "tal-1")
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, newConversation("rec-1", "tal-1"))
	assert.ErrorIs(t, err, domainconversation.ErrDuplicate)

	found, err := repo.FindByParticipants(ctx, domainconversation.Participants{RecruiterID: "rec-1", TalentID: "tal-1"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domainconversation.ErrNotFound)
}

func TestMongoRepository_DeletedByIsPerUser(t *testing.T) {
	repo := NewMongoRepository(mongoTestDB(t))
	ctx := context.Background()

	conv := newConversation("rec-1", "tal-1")
	require.NoError(t, repo.Create(ctx, conv))

	require.NoError(t, repo.AddDeletedBy(ctx, conv.ID, "tal-1"))
	require.NoError(t, repo.AddDeletedBy(ctx, conv.ID, "tal-1"))

	stored, err := repo.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tal-1"}, stored.DeletedBy)

	talentView, err := repo.ListForUser(ctx, "tal-1", domain.RoleTalent)
	require.NoError(t, err)
	assert.Empty(t, talentView)

	recruiterView, err := repo.ListForUser(ctx, "rec-1", domain.RoleRecruiter)
	require.NoError(t, err)
	assert.Len(t, recruiterView, 1)
}

func TestMongoMessageRepository_UnreadCounters(t *testing.T) {
	db := mongoTestDB(t)
	messages := NewMongoMessageRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, convID := range []string{"c-1", "c-1", "c-2"} {
		require.NoError(t, messages.Create(ctx, &domainconversation.Message{
			ID:             uuid.NewString(),
			ConversationID: convID,
			SenderID:       "rec-1",
			ReceiverID:     "tal-1",
			Text:           "hello",
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}))
	}

	total, err := messages.CountUnread(ctx, "tal-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	withUnread, err := messages.CountConversationsWithUnread(ctx, "tal-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), withUnread)

	updated, err := messages.MarkRead(ctx, "c-1", "tal-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	again, err := messages.MarkRead(ctx, "c-1", "tal-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, again)

	inConv, err := messages.CountUnreadInConversation(ctx, "c-1", "tal-1")
	require.NoError(t, err)
	assert.Zero(t, inConv)

	// The sender never has unread messages of their own.
	senderUnread, err := messages.CountUnread(ctx, "rec-1")
	require.NoError(t, err)
	assert.Zero(t, senderUnread)

	listed, err := messages.ListByConversation(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.True(t, listed[0].CreatedAt.Before(listed[1].CreatedAt))
	assert.True(t, listed[0].IsRead)
	assert.NotNil(t, listed[0].SeenAt)
}
