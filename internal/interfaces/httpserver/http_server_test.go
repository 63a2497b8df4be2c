package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/marketplace-api/internal/config"
	"talentbridge/marketplace-api/internal/domain/contract"
	"talentbridge/marketplace-api/internal/domain/conversation"
	"talentbridge/marketplace-api/internal/domain/mission"
	"talentbridge/marketplace-api/internal/domain/proposal"
	"talentbridge/marketplace-api/internal/domain/user"
	"talentbridge/marketplace-api/internal/infrastructure/auth"
	contractrepo "talentbridge/marketplace-api/internal/infrastructure/repository/contract"
	convrepo "talentbridge/marketplace-api/internal/infrastructure/repository/conversation"
	missionrepo "talentbridge/marketplace-api/internal/infrastructure/repository/mission"
	proposalrepo "talentbridge/marketplace-api/internal/infrastructure/repository/proposal"
	userrepo "talentbridge/marketplace-api/internal/infrastructure/repository/user"
	"talentbridge/marketplace-api/internal/interfaces/httpserver"
)

type identity struct {
	id, role, name string
}

var (
	ada   = identity{"rec-1", "recruiter", "Ada Lovelace"}
	grace = identity{"tal-1", "talent", "Grace Hopper"}
)

func newTestServer(t *testing.T, checks ...httpserver.ReadinessCheck) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{ServiceName: "marketplace-api", Environment: "test", UserCacheSize: 16}
	log := zerolog.Nop()

	validator, err := auth.NewValidator(context.Background(), cfg, log)
	require.NoError(t, err)

	users := user.NewService(userrepo.NewInMemoryRepository(), log)
	conversations := conversation.NewService(
		convrepo.NewInMemoryRepository(),
		convrepo.NewInMemoryMessageRepository(),
		users,
		conversation.Settings{},
		log,
	)
	missions := mission.NewService(missionrepo.NewInMemoryRepository(), log)
	proposals := proposal.NewService(proposalrepo.NewInMemoryRepository(), missions, conversations, log)
	contracts := contract.NewService(contractrepo.NewInMemoryRepository(), conversations, log)

	server := httpserver.New(cfg, log, httpserver.Services{
		Conversations: conversations,
		Users:         users,
		Missions:      missions,
		Proposals:     proposals,
		Contracts:     contracts,
	}, validator, checks...)
	return server.Handler()
}

func call(t *testing.T, h http.Handler, who *identity, method, path, body string) (int, []byte) {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if who != nil {
		req.Header.Set(auth.HeaderUserID, who.id)
		req.Header.Set(auth.HeaderUserRole, who.role)
		req.Header.Set(auth.HeaderUserName, who.name)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code, w.Body.Bytes()
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestPublicRoutes(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/", "/healthz", "/readyz", "/health/auth", "/metrics"} {
		code, _ := call(t, h, nil, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, code, path)
	}

	code, _ := call(t, h, nil, http.MethodGet, "/v1/conversations", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestReadinessReportsFailingChecks(t *testing.T) {
	h := newTestServer(t, httpserver.ReadinessCheck{
		Name:  "mongodb",
		Check: func(context.Context) error { return assert.AnError },
	})

	code, body := call(t, h, nil, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, string(body), "mongodb")
}

func TestConversationFlow(t *testing.T) {
	h := newTestServer(t)

	code, body := call(t, h, &ada, http.MethodPost, "/v1/conversations", `{"talentId":"tal-1"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	conv := decode[conversation.Conversation](t, body)
	assert.Equal(t, "rec-1", conv.RecruiterID)
	require.NotNil(t, conv.RecruiterName)
	assert.Equal(t, "Ada Lovelace", *conv.RecruiterName)
	assert.Nil(t, conv.TalentName)

	// The talent opening the same pair converges on one conversation.
	code, body = call(t, h, &grace, http.MethodPost, "/v1/conversations", `{"recruiterId":"rec-1"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, conv.ID, decode[conversation.Conversation](t, body).ID)

	code, _ = call(t, h, &ada, http.MethodPost, "/v1/conversations/"+conv.ID+"/messages", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, code)

	for _, text := range []string{"Hello Grace", "Are you available?"} {
		code, _ = call(t, h, &ada, http.MethodPost, "/v1/conversations/"+conv.ID+"/messages", `{"text":"`+text+`"}`)
		require.Equal(t, http.StatusCreated, code)
	}

	code, body = call(t, h, &grace, http.MethodGet, "/v1/conversations/unread-count", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), decode[map[string]int64](t, body)["count"])

	code, body = call(t, h, &grace, http.MethodGet, "/v1/conversations/conversations-with-unread", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), decode[map[string]int64](t, body)["count"])

	code, body = call(t, h, &grace, http.MethodGet, "/v1/conversations", "")
	require.Equal(t, http.StatusOK, code)
	list := decode[[]conversation.Conversation](t, body)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].TalentName)
	assert.Equal(t, "Grace Hopper", *list[0].TalentName)
	require.NotNil(t, list[0].LastMessageText)
	assert.Equal(t, "Are you available?", *list[0].LastMessageText)

	code, body = call(t, h, &grace, http.MethodGet, "/v1/conversations/"+conv.ID+"/messages", "")
	require.Equal(t, http.StatusOK, code)
	messages := decode[[]conversation.Message](t, body)
	require.Len(t, messages, 2)
	assert.Equal(t, "Hello Grace", messages[0].Text)

	code, body = call(t, h, &grace, http.MethodPost, "/v1/conversations/"+conv.ID+"/mark-read", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), decode[map[string]int64](t, body)["updated"])

	code, body = call(t, h, &grace, http.MethodGet, "/v1/conversations/"+conv.ID+"/unread-count", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(0), decode[map[string]int64](t, body)["count"])

	code, _ = call(t, h, &grace, http.MethodDelete, "/v1/conversations/"+conv.ID, "")
	require.Equal(t, http.StatusNoContent, code)

	code, body = call(t, h, &grace, http.MethodGet, "/v1/conversations", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]conversation.Conversation](t, body))

	code, body = call(t, h, &ada, http.MethodGet, "/v1/conversations", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]conversation.Conversation](t, body), 1)

	outsider := identity{"tal-2", "talent", "Linus"}
	code, _ = call(t, h, &outsider, http.MethodGet, "/v1/conversations/"+conv.ID, "")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestMarketplaceFlow(t *testing.T) {
	h := newTestServer(t)

	code, _ := call(t, h, &grace, http.MethodPost, "/v1/missions", `{"title":"Go backend","budget":"4500"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := call(t, h, &ada, http.MethodPost, "/v1/missions", `{"title":"Go backend","description":"Chat service","budget":"4500"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	m := decode[mission.Mission](t, body)

	path := "/v1/missions/" + m.ID + "/proposals"
	code, body = call(t, h, &grace, http.MethodPost, path, `{"coverLetter":"I have shipped three chat backends.","rate":"65"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	p := decode[proposal.Proposal](t, body)

	code, _ = call(t, h, &grace, http.MethodPost, path, `{"coverLetter":"Applying a second time.","rate":"70"}`)
	assert.Equal(t, http.StatusConflict, code)

	// Submitting opened the conversation for the recruiter.
	code, body = call(t, h, &ada, http.MethodGet, "/v1/conversations", "")
	require.Equal(t, http.StatusOK, code)
	list := decode[[]conversation.Conversation](t, body)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].MissionID)
	assert.Equal(t, m.ID, *list[0].MissionID)

	code, body = call(t, h, &ada, http.MethodPost, "/v1/proposals/"+p.ID+"/accept", "")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, proposal.StatusAccepted, decode[proposal.Proposal](t, body).Status)

	code, body = call(t, h, &ada, http.MethodPost, "/v1/contracts",
		`{"talentId":"tal-1","missionId":"`+m.ID+`","title":"Backend engagement","amount":"12000","pdfUrl":"https://files.example.com/c/1.pdf"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	c := decode[contract.Contract](t, body)

	code, _ = call(t, h, &ada, http.MethodPost, "/v1/contracts/"+c.ID+"/sign", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = call(t, h, &grace, http.MethodPost, "/v1/contracts/"+c.ID+"/sign", "")
	require.Equal(t, http.StatusOK, code, string(body))
	code, body = call(t, h, &ada, http.MethodPost, "/v1/contracts/"+c.ID+"/sign", "")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, contract.StatusSigned, decode[contract.Contract](t, body).Status)

	code, body = call(t, h, &grace, http.MethodGet, "/v1/conversations/"+c.ConversationID+"/messages", "")
	require.Equal(t, http.StatusOK, code)
	messages := decode[[]conversation.Message](t, body)
	require.Len(t, messages, 3)
	assert.Equal(t, conversation.ContractFullySignedText, messages[2].Text)
	assert.True(t, messages[0].IsContractMessage)

	code, body = call(t, h, &grace, http.MethodGet, "/v1/users/me", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Grace Hopper", decode[user.Profile](t, body).FullName)
}
