package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/config"
	"talentbridge/marketplace-api/internal/domain"
)

// Trusted identity headers used when token validation is disabled.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

var (
	ErrMissingCredentials = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingRole        = errors.New("caller has no marketplace role")
)

// Validator resolves the calling principal from a request, either from a JWT
// verified through JWKS or from trusted gateway headers.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	log = log.With().Str("component", "auth").Logger()
	if !cfg.AuthEnabled {
		log.Warn().Msg("token validation disabled, trusting identity headers")
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:  cfg,
		log:  log,
		jwks: jwks,
	}, nil
}

// Authenticate returns the principal for the request.
func (v *Validator) Authenticate(r *http.Request) (domain.Principal, error) {
	if v == nil || !v.cfg.AuthEnabled {
		return principalFromHeaders(r.Header)
	}

	tokenString := bearerToken(r.Header.Get("Authorization"))
	if tokenString == "" {
		return domain.Principal{}, ErrMissingCredentials
	}

	token, err := jwt.Parse(tokenString, v.jwks.Keyfunc,
		jwt.WithIssuer(v.cfg.AuthIssuer),
		jwt.WithAudience(v.cfg.AuthAudience),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	)
	if err != nil || !token.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Principal{}, ErrInvalidToken
	}
	return v.principalFromClaims(claims)
}

func (v *Validator) principalFromClaims(claims jwt.MapClaims) (domain.Principal, error) {
	subject, _ := claims.GetSubject()
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return domain.Principal{}, ErrInvalidToken
	}

	role, ok := roleFromClaim(claims[v.cfg.AuthRoleClaim])
	if !ok {
		if realm, isMap := claims["realm_access"].(map[string]any); isMap {
			role, ok = roleFromClaim(realm["roles"])
		}
	}
	if !ok {
		return domain.Principal{}, ErrMissingRole
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if name == "" {
		name, _ = claims["preferred_username"].(string)
	}

	return domain.Principal{
		ID:         subject,
		Role:       role,
		AuthMethod: domain.AuthMethodJWT,
		Email:      email,
		Name:       name,
	}, nil
}

// Ready indicates if the validator is prepared.
func (v *Validator) Ready() bool {
	if v == nil || !v.cfg.AuthEnabled {
		return true
	}
	return v.jwks != nil
}

// Close stops background JWKS refreshes.
func (v *Validator) Close() {
	if v != nil && v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func principalFromHeaders(headers http.Header) (domain.Principal, error) {
	userID := strings.TrimSpace(headers.Get(HeaderUserID))
	if userID == "" {
		return domain.Principal{}, ErrMissingCredentials
	}
	role, ok := domain.ParseRole(headers.Get(HeaderUserRole))
	if !ok {
		return domain.Principal{}, ErrMissingRole
	}
	return domain.Principal{
		ID:         userID,
		Role:       role,
		AuthMethod: domain.AuthMethodHeader,
		Email:      strings.TrimSpace(headers.Get(HeaderUserEmail)),
		Name:       strings.TrimSpace(headers.Get(HeaderUserName)),
	}, nil
}

// roleFromClaim accepts a string or the first marketplace role in a string array.
func roleFromClaim(raw any) (domain.Role, bool) {
	switch value := raw.(type) {
	case string:
		return domain.ParseRole(value)
	case []any:
		for _, entry := range value {
			if s, ok := entry.(string); ok {
				if role, ok := domain.ParseRole(s); ok {
					return role, true
				}
			}
		}
	case []string:
		for _, entry := range value {
			if role, ok := domain.ParseRole(entry); ok {
				return role, true
			}
		}
	}
	return "", false
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
