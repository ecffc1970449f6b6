package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/dto"
	"github.com/ignatzorin/gig-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// MessageHandler отвечает за личную переписку.
type MessageHandler struct {
	messages *service.MessageService
}

func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SendMessage POST /messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "receiver_id и content обязательны")
		return
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		common.RespondBadRequest(c, "неверный receiver_id")
		return
	}

	msg, err := h.messages.SendMessage(c.Request.Context(), userID, receiverID, req.Content)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// GetInbox GET /messages
func (h *MessageHandler) GetInbox(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	conversations, err := h.messages.GetInbox(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetConversation GET /messages/:id
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	otherID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	messages, err := h.messages.GetConversation(c.Request.Context(), userID, otherID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
