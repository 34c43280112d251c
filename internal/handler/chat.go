package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psds-microservice/chatbot-service/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type sendMessageRequest struct {
	Message        string `json:"message" binding:"required"`
	SessionID      string `json:"session_id" binding:"required"`
	UserID         string `json:"user_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

// SendMessage — POST /api/v1/chat/:chatbotId/send-message.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	result, err := h.svc.HandleIncomingMessage(c.Request.Context(), service.HandleMessageInput{
		ChatbotID:      c.Param("chatbotId"),
		SessionID:      req.SessionID,
		UserID:         req.UserID,
		Message:        req.Message,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// History — GET /api/v1/sessions/:sessionId/history.
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.svc.GetChatHistory(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SessionInfo — GET /api/v1/sessions/:sessionId.
func (h *ChatHandler) SessionInfo(c *gin.Context) {
	sess, err := h.svc.GetSessionInfo(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type supportMessageRequest struct {
	Message       string `json:"message" binding:"required"`
	SupportUserID string `json:"support_user_id" binding:"required"`
}

// SendSupportMessage — POST /api/v1/sessions/:sessionId/support-message.
func (h *ChatHandler) SendSupportMessage(c *gin.Context) {
	var req supportMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	msg, err := h.svc.SendSupportMessage(c.Request.Context(), c.Param("sessionId"), req.SupportUserID, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
