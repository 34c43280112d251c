package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psds-microservice/chatbot-service/internal/service"
)

type ChatbotHandler struct {
	svc *service.ChatbotService
}

func NewChatbotHandler(svc *service.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{svc: svc}
}

type createChatbotRequest struct {
	OwnerID      string `json:"owner_id"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
	Context      string `json:"context"`
}

// Create — POST /api/v1/chatbots.
func (h *ChatbotHandler) Create(c *gin.Context) {
	var req createChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	bot, err := h.svc.Create(c.Request.Context(), service.CreateChatbotInput{
		OwnerID:      req.OwnerID,
		Name:         req.Name,
		Description:  req.Description,
		Instructions: req.Instructions,
		Context:      req.Context,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bot)
}

// Get — GET /api/v1/chatbots/:chatbotId.
func (h *ChatbotHandler) Get(c *gin.Context) {
	bot, err := h.svc.GetByID(c.Request.Context(), c.Param("chatbotId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bot)
}

// InitializeAgent — POST /api/v1/chatbots/:chatbotId/agent (создаёт vendor-агента).
func (h *ChatbotHandler) InitializeAgent(c *gin.Context) {
	bot, err := h.svc.InitializeAgent(c.Request.Context(), c.Param("chatbotId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bot)
}
