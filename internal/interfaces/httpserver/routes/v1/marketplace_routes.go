package v1

import (
	"github.com/gin-gonic/gin"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/handlers"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/middlewares"
)

func registerMissionRoutes(router gin.IRoutes, handler *handlers.MissionHandler, proposals *handlers.ProposalHandler) {
	recruiterOnly := middlewares.RequireRoles(domain.RoleRecruiter)

	router.GET("/missions", handler.List)
	router.POST("/missions", recruiterOnly, handler.Create)
	router.GET("/missions/:id", handler.Get)
	router.POST("/missions/:id/close", recruiterOnly, handler.Close)

	if proposals != nil {
		router.POST("/missions/:id/proposals", middlewares.RequireRoles(domain.RoleTalent), proposals.Submit)
		router.GET("/missions/:id/proposals", recruiterOnly, proposals.ListForMission)
	}
}

func registerProposalRoutes(router gin.IRoutes, handler *handlers.ProposalHandler) {
	router.GET("/proposals", handler.ListMine)
	router.POST("/proposals/:id/accept", middlewares.RequireRoles(domain.RoleRecruiter), handler.Accept)
	router.POST("/proposals/:id/reject", middlewares.RequireRoles(domain.RoleRecruiter), handler.Reject)
	router.POST("/proposals/:id/withdraw", middlewares.RequireRoles(domain.RoleTalent), handler.Withdraw)
}

func registerContractRoutes(router gin.IRoutes, handler *handlers.ContractHandler) {
	router.GET("/contracts", handler.ListMine)
	router.POST("/contracts", middlewares.RequireRoles(domain.RoleRecruiter), handler.Send)
	router.GET("/contracts/:id", handler.Get)
	router.POST("/contracts/:id/sign", handler.Sign)
}
