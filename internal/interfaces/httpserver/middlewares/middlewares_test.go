package middlewares

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

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/user"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

type stubAuthenticator struct {
	principal domain.Principal
	err       error
}

func (s stubAuthenticator) Authenticate(*http.Request) (domain.Principal, error) {
	return s.principal, s.err
}

type countingEnsurer struct {
	calls int
}

func (e *countingEnsurer) EnsureProfile(_ context.Context, principal domain.Principal) (*user.Profile, error) {
	e.calls++
	return &user.Profile{ID: principal.ID, Role: principal.Role}, nil
}

func newTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(handlers...)
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func serve(engine *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return w
}

func TestAuthMiddleware(t *testing.T) {
	rejected := newTestEngine(AuthMiddleware(stubAuthenticator{err: errors.New("authentication required")}, zerolog.Nop()))
	assert.Equal(t, http.StatusUnauthorized, serve(rejected).Code)

	caller := domain.Principal{ID: "tal-1", Role: domain.RoleTalent, AuthMethod: domain.AuthMethodJWT}
	accepted := newTestEngine(AuthMiddleware(stubAuthenticator{principal: caller}, zerolog.Nop()))
	w := serve(accepted)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jwt", w.Header().Get("X-Auth-Method"))
}

func TestRequireRoles(t *testing.T) {
	talent := domain.Principal{ID: "tal-1", Role: domain.RoleTalent}
	auth := AuthMiddleware(stubAuthenticator{principal: talent}, zerolog.Nop())

	assert.Equal(t, http.StatusOK, serve(newTestEngine(auth, RequireRoles(domain.RoleTalent, domain.RoleRecruiter))).Code)
	assert.Equal(t, http.StatusForbidden, serve(newTestEngine(auth, RequireRoles(domain.RoleRecruiter))).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(newTestEngine(RequireRoles(domain.RoleTalent))).Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	var fromCtx string
	engine.GET("/ping", func(c *gin.Context) {
		fromCtx = platformerrors.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := serve(engine)
	generated := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-Id"))
}

func TestProfileSyncSkipsRepeatIdentities(t *testing.T) {
	ensurer := &countingEnsurer{}
	caller := domain.Principal{ID: "rec-1", Role: domain.RoleRecruiter, Name: "Ada"}
	engine := newTestEngine(
		AuthMiddleware(stubAuthenticator{principal: caller}, zerolog.Nop()),
		ProfileSync(ensurer, 8, zerolog.Nop()),
	)

	serve(engine)
	serve(engine)
	assert.Equal(t, 1, ensurer.calls)
}

func TestLoggingMiddlewareScopesLoggerToRequest(t *testing.T) {
	var logs bytes.Buffer
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), LoggingMiddleware(zerolog.New(&logs).Level(zerolog.InfoLevel)))
	engine.GET("/v1/missions/:id", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("handler")
		c.Status(http.StatusNotFound)
	})
	engine.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/v1/missions/m-1", nil)
	req.Header.Set("X-Request-Id", "req-7")
	engine.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var inner, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &access))
	assert.Equal(t, "req-7", inner["request_id"])
	assert.Equal(t, "req-7", access["request_id"])
	assert.Equal(t, "warn", access["level"])
	assert.Equal(t, "/v1/missions/:id", access["route"])

	logs.Reset()
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Zero(t, logs.Len())
}
