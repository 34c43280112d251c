package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psds-microservice/chatbot-service/internal/service"
)

type SupportUserHandler struct {
	svc *service.SupportUserService
}

func NewSupportUserHandler(svc *service.SupportUserService) *SupportUserHandler {
	return &SupportUserHandler{svc: svc}
}

type createSupportUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// Create — POST /api/v1/chatbots/:chatbotId/support-users.
func (h *SupportUserHandler) Create(c *gin.Context) {
	var req createSupportUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	u, err := h.svc.Create(c.Request.Context(), c.Param("chatbotId"), req.Name, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// List — GET /api/v1/chatbots/:chatbotId/support-users (ростер со счётчиками тикетов).
func (h *SupportUserHandler) List(c *gin.Context) {
	users, err := h.svc.ListWithStats(c.Request.Context(), c.Param("chatbotId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"support_users": users})
}
