package v1

import (
	"github.com/gin-gonic/gin"

	"talentbridge/marketplace-api/internal/interfaces/httpserver/handlers"
)

func registerUserRoutes(router gin.IRoutes, handler *handlers.UserHandler) {
	router.GET("/users/me", handler.Me)
	router.PATCH("/users/me", handler.UpdateMe)
	router.GET("/users/:id", handler.Get)
}
