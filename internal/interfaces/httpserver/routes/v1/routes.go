package v1

import (
	"github.com/gin-gonic/gin"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/handlers"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/middlewares"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under the /v1 prefix. Every route requires a
// marketplace role.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1", middlewares.RequireRoles(domain.RoleTalent, domain.RoleRecruiter))

	registerConversationRoutes(group, r.handlers.Conversation)
	registerUserRoutes(group, r.handlers.User)

	if r.handlers.Mission != nil {
		registerMissionRoutes(group, r.handlers.Mission, r.handlers.Proposal)
	}
	if r.handlers.Proposal != nil {
		registerProposalRoutes(group, r.handlers.Proposal)
	}
	if r.handlers.Contract != nil {
		registerContractRoutes(group, r.handlers.Contract)
	}
}
