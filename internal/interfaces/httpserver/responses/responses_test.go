package responses_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/marketplace-api/internal/interfaces/httpserver/responses"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

func newContext(t *testing.T, logs *bytes.Buffer) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	log := zerolog.New(logs)
	req := httptest.NewRequest(http.MethodGet, "/v1/conversations", nil)
	c.Request = req.WithContext(log.WithContext(platformerrors.WithRequestID(req.Context(), "req-42")))
	return c, w
}

func TestHandleError_ServerErrorsAreLogged(t *testing.T) {
	var logs bytes.Buffer
	c, w := newContext(t, &logs)

	err := platformerrors.NewErrorWithContext(c.Request.Context(), platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		"mongo write failed", errors.New("connection reset"), "0c5e1d2a-7b3f-4e6a-9d8c-1f2e3a4b5c6d", map[string]any{"collection": "messages"})
	responses.HandleError(c, err, "failed to send message")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body responses.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed to send message", body.Message)
	assert.Equal(t, "req-42", body.RequestID)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "0c5e1d2a-7b3f-4e6a-9d8c-1f2e3a4b5c6d", entry["error_uuid"])
	assert.Equal(t, "repository", entry["layer"])
	assert.Equal(t, "messages", entry["collection"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "connection reset", entry["error"])
}

func TestHandleError_ClientErrorsStayQuiet(t *testing.T) {
	var logs bytes.Buffer
	c, w := newContext(t, &logs)

	err := platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"conversation not found", nil, "6c4e0f5d-1a7b-4d9e-8f4a-5b6c7d8e9f0a")
	responses.HandleError(c, err, "failed to load conversation")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "conversation not found")
	assert.Zero(t, logs.Len())
}
