package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/psds-microservice/chatbot-service/internal/errs"
)

// writeError маппит доменные ошибки на HTTP-статусы.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrChatbotNotFound),
		errors.Is(err, errs.ErrSessionNotFound),
		errors.Is(err, errs.ErrSupportUserNotFound),
		errors.Is(err, errs.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrAgentNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrAgentUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		zap.S().Errorw("handler: unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
