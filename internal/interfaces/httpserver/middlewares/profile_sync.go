package middlewares

import (
	"context"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/user"
)

// ProfileEnsurer upserts the caller's profile.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, principal domain.Principal) (*user.Profile, error)
}

// ProfileSync records the caller's identity in the user store so conversations
// can show their name. Recently synced identities are skipped.
func ProfileSync(profiles ProfileEnsurer, cacheSize int, logger zerolog.Logger) gin.HandlerFunc {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	seen, err := lru.New(cacheSize)
	if err != nil {
		logger.Warn().Err(err).Msg("profile sync cache disabled")
	}

	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			c.Next()
			return
		}

		key := principal.ID + "|" + string(principal.Role) + "|" + principal.Name + "|" + principal.Email
		if seen != nil && seen.Contains(key) {
			c.Next()
			return
		}
		if _, err := profiles.EnsureProfile(c.Request.Context(), principal); err != nil {
			logger.Warn().Err(err).Str("user_id", principal.ID).Msg("profile sync failed")
		} else if seen != nil {
			seen.Add(key, struct{}{})
		}
		c.Next()
	}
}
