package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ammar1510/chatterbox/internal/models"
	"github.com/ammar1510/chatterbox/internal/service"
)

// MessageHandler handles message-related routes
type MessageHandler struct {
	Messages *service.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{Messages: svc}
}

// Contacts returns every user except the caller
func (h *MessageHandler) Contacts(c *gin.Context) {
	contacts, err := h.Messages.ListContacts(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// Conversation returns the messages between the caller and :userId
func (h *MessageHandler) Conversation(c *gin.Context) {
	otherID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	messages, err := h.Messages.ListMessages(c.Request.Context(), currentUserID(c), otherID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Send stores a message from the caller
func (h *MessageHandler) Send(c *gin.Context) {
	var req models.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.Messages.SendMessage(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
