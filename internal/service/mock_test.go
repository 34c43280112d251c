package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/psds-microservice/chatbot-service/internal/agent"
	"github.com/psds-microservice/chatbot-service/internal/assignment"
	"github.com/psds-microservice/chatbot-service/internal/errs"
	"github.com/psds-microservice/chatbot-service/internal/model"
)

// mockStore — in-memory ChatStore для тестов оркестратора.
type mockStore struct {
	mu       sync.Mutex
	chatbots map[string]*model.Chatbot
	sessions map[string]*model.ChatSession
	messages []model.Message
	tickets  []model.Ticket
	users    map[string]*model.CustomerSupportUser

	nextMessageID uint64
	nextTicketID  uint64

	failAppendMessage bool
	failCreateTicket  bool
}

func newMockStore() *mockStore {
	return &mockStore{
		chatbots: make(map[string]*model.Chatbot),
		sessions: make(map[string]*model.ChatSession),
		users:    make(map[string]*model.CustomerSupportUser),
	}
}

func (m *mockStore) GetChatbot(_ context.Context, id string) (*model.Chatbot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bot, ok := m.chatbots[id]
	if !ok {
		return nil, errs.ErrChatbotNotFound
	}
	return bot, nil
}

func (m *mockStore) GetSessionWithChatbot(_ context.Context, sessionID string) (*model.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, errs.ErrSessionNotFound
	}
	out := *sess
	out.Chatbot = m.chatbots[sess.ChatbotID]
	return &out, nil
}

func (m *mockStore) GetSessionWithTickets(_ context.Context, sessionID string) (*model.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, errs.ErrSessionNotFound
	}
	out := *sess
	for _, t := range m.tickets {
		if t.SessionID == sessionID {
			out.Tickets = append(out.Tickets, t)
		}
	}
	return &out, nil
}

func (m *mockStore) CreateSession(_ context.Context, s *model.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *mockStore) MarkSessionHandedOff(_ context.Context, sessionID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return errs.ErrSessionNotFound
	}
	sess.Status = model.SessionStatusHandedOff
	sess.HandedOff = true
	sess.HandedOffAt = &at
	return nil
}

func (m *mockStore) AppendMessage(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppendMessage {
		return fmt.Errorf("storage down")
	}
	m.nextMessageID++
	msg.ID = m.nextMessageID
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockStore) ListMessages(_ context.Context, sessionID string) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Message
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockStore) CreateTicket(_ context.Context, t *model.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateTicket {
		return fmt.Errorf("storage down")
	}
	m.nextTicketID++
	t.ID = m.nextTicketID
	t.CreatedAt = time.Now()
	m.tickets = append(m.tickets, *t)
	return nil
}

func (m *mockStore) LatestTicketBySession(_ context.Context, sessionID string) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.tickets) - 1; i >= 0; i-- {
		if m.tickets[i].SessionID == sessionID {
			t := m.tickets[i]
			if t.AssignedTo != nil {
				t.AssignedUser = m.users[*t.AssignedTo]
			}
			return &t, nil
		}
	}
	return nil, errs.ErrTicketNotFound
}

func (m *mockStore) TicketByEscalationKey(_ context.Context, key string) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tickets {
		if t.EscalationKey != nil && *t.EscalationKey == key {
			out := t
			return &out, nil
		}
	}
	return nil, errs.ErrTicketNotFound
}

func (m *mockStore) GetSupportUser(_ context.Context, id string) (*model.CustomerSupportUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errs.ErrSupportUserNotFound
	}
	return u, nil
}

func (m *mockStore) messagesBySender(sender model.Sender) []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Message
	for _, msg := range m.messages {
		if msg.Sender == sender {
			out = append(out, msg)
		}
	}
	return out
}

// mockAgent возвращает фиксированный ответ и считает вызовы.
type mockAgent struct {
	mu       sync.Mutex
	response string
	err      error
	calls    []agent.ChatRequest
}

func (m *mockAgent) Chat(_ context.Context, req agent.ChatRequest) (*agent.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	return &agent.ChatResponse{Response: m.response, AgentID: req.AgentID, SessionID: req.SessionID}, nil
}

func (m *mockAgent) CreateAgent(_ context.Context, _ agent.AgentConfig) (string, error) {
	return "agent-123", nil
}

func (m *mockAgent) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockAssigner отдаёт заранее заданного исполнителя (nil = никого).
type mockAssigner struct {
	pick  *assignment.SupportUserWithCount
	calls int
}

func (m *mockAssigner) SelectLeastLoaded(_ context.Context, _ string) *assignment.SupportUserWithCount {
	m.calls++
	return m.pick
}

// mockProducer копит события в памяти.
type mockProducer struct {
	mu     sync.Mutex
	events []string
}

func (m *mockProducer) ProduceTicketEvent(_ context.Context, event string, _ map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockProducer) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
