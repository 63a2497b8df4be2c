package v1

import (
	"github.com/gin-gonic/gin"

	"talentbridge/marketplace-api/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(router gin.IRoutes, handler *handlers.ConversationHandler) {
	router.GET("/conversations", handler.List)
	router.POST("/conversations", handler.Create)

	// Static paths before :id
	router.GET("/conversations/unread-count", handler.UnreadCount)
	router.GET("/conversations/conversations-with-unread", handler.ConversationsWithUnread)

	router.GET("/conversations/:id", handler.Get)
	router.DELETE("/conversations/:id", handler.Delete)
	router.GET("/conversations/:id/messages", handler.ListMessages)
	router.POST("/conversations/:id/messages", handler.SendMessage)
	router.POST("/conversations/:id/mark-read", handler.MarkRead)
	router.GET("/conversations/:id/unread-count", handler.ConversationUnreadCount)
}
