package proposal_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/conversation"
	"talentbridge/marketplace-api/internal/domain/mission"
	"talentbridge/marketplace-api/internal/domain/proposal"
	convrepo "talentbridge/marketplace-api/internal/infrastructure/repository/conversation"
	missionrepo "talentbridge/marketplace-api/internal/infrastructure/repository/mission"
	proposalrepo "talentbridge/marketplace-api/internal/infrastructure/repository/proposal"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

var (
	recruiter = domain.Principal{ID: "rec-1", Role: domain.RoleRecruiter}
	talent    = domain.Principal{ID: "tal-1", Role: domain.RoleTalent}
	talent2   = domain.Principal{ID: "tal-2", Role: domain.RoleTalent}
)

type fixture struct {
	proposals     *proposal.Service
	missions      *mission.Service
	conversations conversation.Service
}

func newFixture() *fixture {
	missions := mission.NewService(missionrepo.NewInMemoryRepository(), zerolog.Nop())
	conversations := conversation.NewService(
		convrepo.NewInMemoryRepository(),
		convrepo.NewInMemoryMessageRepository(),
		nil,
		conversation.Settings{},
		zerolog.Nop(),
	)
	return &fixture{
		proposals:     proposal.NewService(proposalrepo.NewInMemoryRepository(), missions, conversations, zerolog.Nop()),
		missions:      missions,
		conversations: conversations,
	}
}

func (f *fixture) publish(t *testing.T) *mission.Mission {
	t.Helper()
	m, err := f.missions.Create(context.Background(), recruiter, mission.CreateInput{
		Title:  "Data pipeline",
		Budget: decimal.NewFromInt(3000),
	})
	require.NoError(t, err)
	return m
}

func submitInput() proposal.SubmitInput {
	return proposal.SubmitInput{CoverLetter: "I have built several pipelines.", Rate: decimal.RequireFromString("65.5")}
}

func TestSubmit_OpensConversationWithMission(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.publish(t)

	p, err := f.proposals.Submit(ctx, talent, m.ID, submitInput())
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusPending, p.Status)
	assert.Equal(t, recruiter.ID, p.RecruiterID)
	require.NotEmpty(t, p.ConversationID)

	conv, err := f.conversations.FindOne(ctx, p.ConversationID, recruiter)
	require.NoError(t, err)
	assert.Equal(t, talent.ID, conv.TalentID)
	require.NotNil(t, conv.MissionID)
	assert.Equal(t, m.ID, *conv.MissionID)
}

func TestSubmit_Rules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.publish(t)

	_, err := f.proposals.Submit(ctx, recruiter, m.ID, submitInput())
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	short := submitInput()
	short.CoverLetter = "hi"
	_, err = f.proposals.Submit(ctx, talent, m.ID, short)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.proposals.Submit(ctx, talent, "missing", submitInput())
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	_, err = f.proposals.Submit(ctx, talent, m.ID, submitInput())
	require.NoError(t, err)
	_, err = f.proposals.Submit(ctx, talent, m.ID, submitInput())
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	_, err = f.missions.Close(ctx, recruiter, m.ID)
	require.NoError(t, err)
	_, err = f.proposals.Submit(ctx, talent2, m.ID, submitInput())
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.publish(t)

	first, err := f.proposals.Submit(ctx, talent, m.ID, submitInput())
	require.NoError(t, err)
	second, err := f.proposals.Submit(ctx, talent2, m.ID, submitInput())
	require.NoError(t, err)

	_, err = f.proposals.Accept(ctx, talent, first.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	accepted, err := f.proposals.Accept(ctx, recruiter, first.ID)
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusAccepted, accepted.Status)

	_, err = f.proposals.Reject(ctx, recruiter, first.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	_, err = f.proposals.Withdraw(ctx, talent, second.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	withdrawn, err := f.proposals.Withdraw(ctx, talent2, second.ID)
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusWithdrawn, withdrawn.Status)

	// A withdrawn proposal no longer blocks a new one.
	_, err = f.proposals.Submit(ctx, talent2, m.ID, submitInput())
	require.NoError(t, err)

	list, err := f.proposals.ListForMission(ctx, recruiter, m.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = f.proposals.ListForMission(ctx, domain.Principal{ID: "rec-2", Role: domain.RoleRecruiter}, m.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	mine, err := f.proposals.ListMine(ctx, talent2)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = f.proposals.Accept(ctx, recruiter, "missing")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
