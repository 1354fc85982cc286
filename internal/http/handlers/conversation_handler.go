package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-platform/internal/dto"
	"github.com/ignatzorin/freelance-platform/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-platform/internal/service"
)

// ConversationHandler обслуживает маршруты диалогов и сообщений.
type ConversationHandler struct {
	conversations *service.ConversationService
}

// NewConversationHandler создаёт хэндлер.
func NewConversationHandler(conversations *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// ListConversations обрабатывает GET /conversations.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	conversations, err := h.conversations.ListMyConversations(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// SendMessage обрабатывает POST /conversations/:id/messages.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор диалога")
		return
	}

	var req dto.SendMessageRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	message, err := h.conversations.SendMessage(c.Request.Context(), conversationID, userID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListMessages обрабатывает GET /conversations/:id/messages.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор диалога")
		return
	}

	limit, offset := common.GetPagination(c)

	messages, err := h.conversations.ListMessages(c.Request.Context(), conversationID, userID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
