package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/psds-microservice/chatbot-service/internal/kafka"
	"github.com/psds-microservice/chatbot-service/internal/model"
	"github.com/psds-microservice/chatbot-service/internal/service"
)

type TicketHandler struct {
	svc      service.TicketServicer
	producer kafka.TicketEventProducer
}

func NewTicketHandler(svc service.TicketServicer, producer kafka.TicketEventProducer) *TicketHandler {
	return &TicketHandler{svc: svc, producer: producer}
}

type createTicketRequest struct {
	Subject    string  `json:"subject"`
	SessionID  string  `json:"session_id" binding:"required"`
	AssignedTo *string `json:"assigned_to"`
}

// Create — POST /api/v1/chatbots/:chatbotId/tickets (ручное создание,
// эскалационный путь создаёт тикеты сам).
func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ticket := &model.Ticket{
		Subject:    req.Subject,
		ChatbotID:  c.Param("chatbotId"),
		SessionID:  req.SessionID,
		AssignedTo: req.AssignedTo,
	}
	if err := h.svc.Create(c.Request.Context(), ticket); err != nil {
		writeError(c, err)
		return
	}
	h.publish("ticket.created", ticket)
	c.JSON(http.StatusCreated, ticket)
}

// List — GET /api/v1/chatbots/:chatbotId/tickets.
func (h *TicketHandler) List(c *gin.Context) {
	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	items, total, err := h.svc.ListByChatbot(c.Request.Context(), c.Param("chatbotId"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": items,
		"total":   total,
	})
}

// Get — GET /api/v1/tickets/:id.
func (h *TicketHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type reassignRequest struct {
	SupportUserID string `json:"support_user_id" binding:"required"`
}

// Reassign — PUT /api/v1/tickets/:id/assignee.
func (h *TicketHandler) Reassign(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := h.svc.Reassign(c.Request.Context(), id, req.SupportUserID)
	if err != nil {
		writeError(c, err)
		return
	}
	h.publish("ticket.updated", t)
	c.JSON(http.StatusOK, t)
}

// publish — fire-and-forget событие в Kafka, ответ API не блокируется.
func (h *TicketHandler) publish(event string, t *model.Ticket) {
	if h.producer == nil {
		return
	}
	payload := map[string]interface{}{
		"ticket_id":  int64(t.ID),
		"session_id": t.SessionID,
		"chatbot_id": t.ChatbotID,
		"subject":    t.Subject,
	}
	if t.AssignedTo != nil {
		payload["assigned_to"] = *t.AssignedTo
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.producer.ProduceTicketEvent(ctx, event, payload)
	}()
}
