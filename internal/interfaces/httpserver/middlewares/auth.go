package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/responses"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

const principalContextKey = "principal"

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (domain.Principal, error)
}

// AuthMiddleware resolves the principal and rejects requests without one.
func AuthMiddleware(authenticator Authenticator, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := authenticator.Authenticate(c.Request)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, err.Error(), "b1c2d3e4-1000-4a5b-8c6d-7e8f9a0b1c2d")
			return
		}
		SetPrincipal(c, principal)
		c.Next()
	}
}

// RequireRoles rejects principals whose role is not listed.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "b1c2d3e4-1001-4a5b-8c6d-7e8f9a0b1c2d")
			return
		}
		for _, role := range roles {
			if principal.Is(role) {
				c.Next()
				return
			}
		}
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "role "+string(principal.Role)+" is not allowed here", "b1c2d3e4-1002-4a5b-8c6d-7e8f9a0b1c2d")
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

// SetPrincipal stores the principal for downstream handlers.
func SetPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(principalContextKey, principal)
	c.Set("user_id", principal.ID)
	c.Writer.Header().Set("X-Auth-Method", string(principal.AuthMethod))
}
