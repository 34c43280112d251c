package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psds-microservice/chatbot-service/internal/errs"
	"github.com/psds-microservice/chatbot-service/internal/model"
)

type stubTicketService struct {
	tickets map[uint64]*model.Ticket
}

func (s *stubTicketService) Create(_ context.Context, t *model.Ticket) error {
	t.ID = uint64(len(s.tickets) + 1)
	s.tickets[t.ID] = t
	return nil
}

func (s *stubTicketService) GetByID(_ context.Context, id uint64) (*model.Ticket, error) {
	t, ok := s.tickets[id]
	if !ok {
		return nil, errs.ErrTicketNotFound
	}
	return t, nil
}

func (s *stubTicketService) ListByChatbot(_ context.Context, chatbotID string, _, _ int) ([]model.Ticket, int64, error) {
	var out []model.Ticket
	for _, t := range s.tickets {
		if t.ChatbotID == chatbotID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubTicketService) Reassign(_ context.Context, id uint64, supportUserID string) (*model.Ticket, error) {
	t, ok := s.tickets[id]
	if !ok {
		return nil, errs.ErrTicketNotFound
	}
	t.AssignedTo = &supportUserID
	return t, nil
}

func newTicketRouter(svc *stubTicketService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTicketHandler(svc, nil)
	r := gin.New()
	r.POST("/chatbots/:chatbotId/tickets", h.Create)
	r.GET("/chatbots/:chatbotId/tickets", h.List)
	r.GET("/tickets/:id", h.Get)
	r.PUT("/tickets/:id/assignee", h.Reassign)
	return r
}

func TestTicketCreateAndGet(t *testing.T) {
	svc := &stubTicketService{tickets: map[uint64]*model.Ticket{}}
	r := newTicketRouter(svc)

	body, _ := json.Marshal(map[string]string{"subject": "billing issue", "session_id": "sess-1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chatbots/bot-1/tickets", bytes.NewReader(body))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tickets/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "billing issue", got.Subject)
	assert.Equal(t, "bot-1", got.ChatbotID)
}

func TestTicketCreateRequiresSessionID(t *testing.T) {
	svc := &stubTicketService{tickets: map[uint64]*model.Ticket{}}
	r := newTicketRouter(svc)

	body, _ := json.Marshal(map[string]string{"subject": "no session"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chatbots/bot-1/tickets", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketGetNotFound(t *testing.T) {
	svc := &stubTicketService{tickets: map[uint64]*model.Ticket{}}
	r := newTicketRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tickets/42", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTicketReassign(t *testing.T) {
	svc := &stubTicketService{tickets: map[uint64]*model.Ticket{
		1: {ID: 1, ChatbotID: "bot-1", SessionID: "sess-1"},
	}}
	r := newTicketRouter(svc)

	body, _ := json.Marshal(map[string]string{"support_user_id": "su-2"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/tickets/1/assignee", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.tickets[1].AssignedTo)
	assert.Equal(t, "su-2", *svc.tickets[1].AssignedTo)
}
