package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"talentbridge/marketplace-api/internal/domain"
	"talentbridge/marketplace-api/internal/domain/conversation"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/middlewares"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/requests"
	"talentbridge/marketplace-api/internal/interfaces/httpserver/responses"
	"talentbridge/marketplace-api/internal/utils/platformerrors"
)

// ConversationHandler exposes HTTP entrypoints for conversations and messages.
type ConversationHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /v1/conversations
// @Summary List conversations
// @Description Returns the caller's conversations, most recent activity first. Conversations the caller deleted are excluded.
// @Tags Conversations
// @Produce json
// @Success 200 {array} conversation.Conversation
// @Failure 401 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /v1/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	list, err := h.service.FindAll(c.Request.Context(), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /v1/conversations
// @Summary Find or create a conversation
// @Description Returns the single conversation between the caller and the named counterpart, creating it on first contact.
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body requests.CreateConversationRequest true "Counterpart hint"
// @Success 200 {object} conversation.Conversation
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/conversations [post]
func (h *ConversationHandler) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req requests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "c2d3e4f5-2000-4b6c-9d7e-8f9a0b1c2d3e")
		return
	}
	conv, err := h.service.FindOrCreate(c.Request.Context(), caller, req.ToInput())
	if err != nil {
		responses.HandleError(c, err, "failed to open conversation")
		return
	}
	c.JSON(http.StatusOK, conv)
}

// Get handles GET /v1/conversations/:id
// @Summary Get a conversation
// @Tags Conversations
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} conversation.Conversation
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	conv, err := h.service.FindOne(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to get conversation")
		return
	}
	c.JSON(http.StatusOK, conv)
}

// Delete handles DELETE /v1/conversations/:id
// @Summary Hide a conversation for the caller
// @Description Adds the caller to the conversation's deletedBy set. The other party is unaffected.
// @Tags Conversations
// @Param id path string true "Conversation ID"
// @Success 204
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{id} [delete]
func (h *ConversationHandler) Delete(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	if err := h.service.DeleteConversation(c.Request.Context(), c.Param("id"), caller); err != nil {
		responses.HandleError(c, err, "failed to delete conversation")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMessages handles GET /v1/conversations/:id/messages
// @Summary List messages
// @Description Returns all messages oldest first.
// @Tags Conversations
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {array} conversation.Message
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{id}/messages [get]
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	messages, err := h.service.GetMessages(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessage handles POST /v1/conversations/:id/messages
// @Summary Send a message
// @Tags Conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body requests.SendMessageRequest true "Message"
// @Success 201 {object} conversation.Message
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{id}/messages [post]
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req requests.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "c2d3e4f5-2001-4b6c-9d7e-8f9a0b1c2d3e")
		return
	}
	msg, err := h.service.SendMessage(c.Request.Context(), c.Param("id"), caller, req.Text)
	if err != nil {
		responses.HandleError(c, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkRead handles POST /v1/conversations/:id/mark-read
// @Summary Mark the caller's received messages as read
// @Tags Conversations
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} responses.MarkReadResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{id}/mark-read [post]
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	updated, err := h.service.MarkConversationAsRead(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to mark conversation as read")
		return
	}
	c.JSON(http.StatusOK, responses.MarkReadResponse{Updated: updated})
}

// ConversationUnreadCount handles GET /v1/conversations/:id/unread-count
// @Summary Unread messages in one conversation
// @Tags Conversations
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} responses.CountResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{id}/unread-count [get]
func (h *ConversationHandler) ConversationUnreadCount(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	count, err := h.service.GetConversationUnreadCount(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to count unread messages")
		return
	}
	c.JSON(http.StatusOK, responses.CountResponse{Count: count})
}

// UnreadCount handles GET /v1/conversations/unread-count
// @Summary Total unread messages addressed to the caller
// @Tags Conversations
// @Produce json
// @Success 200 {object} responses.CountResponse
// @Router /v1/conversations/unread-count [get]
func (h *ConversationHandler) UnreadCount(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	count, err := h.service.GetUnreadCount(c.Request.Context(), caller.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to count unread messages")
		return
	}
	c.JSON(http.StatusOK, responses.CountResponse{Count: count})
}

// ConversationsWithUnread handles GET /v1/conversations/conversations-with-unread
// @Summary Number of conversations with unread messages for the caller
// @Tags Conversations
// @Produce json
// @Success 200 {object} responses.CountResponse
// @Router /v1/conversations/conversations-with-unread [get]
func (h *ConversationHandler) ConversationsWithUnread(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	count, err := h.service.GetConversationsWithUnreadCount(c.Request.Context(), caller.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to count conversations with unread messages")
		return
	}
	c.JSON(http.StatusOK, responses.CountResponse{Count: count})
}

// callerFrom returns the authenticated principal or writes a 401.
func callerFrom(c *gin.Context) (domain.Principal, bool) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok || principal.ID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "c2d3e4f5-2002-4b6c-9d7e-8f9a0b1c2d3e")
		return domain.Principal{}, false
	}
	return principal, true
}
