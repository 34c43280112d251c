package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/psds-microservice/chatbot-service/internal/agent"
	"github.com/psds-microservice/chatbot-service/internal/assignment"
	"github.com/psds-microservice/chatbot-service/internal/errs"
	"github.com/psds-microservice/chatbot-service/internal/escalation"
	"github.com/psds-microservice/chatbot-service/internal/kafka"
	"github.com/psds-microservice/chatbot-service/internal/metrics"
	"github.com/psds-microservice/chatbot-service/internal/model"
)

// subjectMaxLen — сколько символов исходного вопроса попадает в subject тикета.
const subjectMaxLen = 100

const anonymousUserID = "anonymous"

// HandleMessageInput — входящее сообщение конечного пользователя.
// IdempotencyKey опционален: при повторе с тем же ключом эскалация
// не создаст второй тикет.
type HandleMessageInput struct {
	ChatbotID      string
	SessionID      string
	UserID         string
	Message        string
	IdempotencyKey string
}

// ChatResult — ответ оркестратора вызывающему HTTP-слою.
type ChatResult struct {
	Response   string                     `json:"response"`
	Escalated  bool                       `json:"escalated"`
	Message    string                     `json:"message,omitempty"`
	TicketID   uint64                     `json:"ticket_id,omitempty"`
	AssignedTo *model.CustomerSupportUser `json:"assigned_to,omitempty"`
}

// ChatService — машина состояний диалога: ACTIVE-сессии ходят к агенту,
// HANDED_OFF-сессии замкнуты на живого саппорта. Переход в HANDED_OFF
// происходит в момент эскалации вместе с созданием тикета.
type ChatService struct {
	store    ChatStore
	agent    agent.Agent
	detector *escalation.Detector
	assigner assignment.Assigner
	producer kafka.TicketEventProducer
}

func NewChatService(store ChatStore, ag agent.Agent, detector *escalation.Detector, assigner assignment.Assigner, producer kafka.TicketEventProducer) *ChatService {
	return &ChatService{
		store:    store,
		agent:    ag,
		detector: detector,
		assigner: assigner,
		producer: producer,
	}
}

// HandleIncomingMessage обрабатывает сообщение пользователя end-to-end:
// сессия (лениво создаётся) → журнал → агент либо human-режим → эскалация.
// Сообщение пользователя становится durable до любого фейла дальше по цепочке.
func (s *ChatService) HandleIncomingMessage(ctx context.Context, in HandleMessageInput) (*ChatResult, error) {
	sess, err := s.loadOrCreateSession(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.appendMessage(ctx, &model.Message{
		SessionID: sess.ID,
		Content:   in.Message,
		Sender:    model.SenderUser,
	}); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	if sess.HandedOff || sess.Status == model.SessionStatusHandedOff {
		return s.handleHandedOffSession(ctx, sess)
	}

	if sess.Chatbot == nil || sess.Chatbot.AgentID == "" {
		return nil, errs.ErrAgentNotConfigured
	}

	userID := in.UserID
	if userID == "" {
		userID = anonymousUserID
	}

	start := time.Now()
	resp, err := s.agent.Chat(ctx, agent.ChatRequest{
		UserID:    userID,
		AgentID:   sess.Chatbot.AgentID,
		Message:   in.Message,
		SessionID: sess.ID,
	})
	metrics.AgentRequestSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	cleaned, needsHuman := s.detector.Detect(resp.Response)

	if err := s.appendMessage(ctx, &model.Message{
		SessionID: sess.ID,
		Content:   cleaned,
		Sender:    model.SenderAgent,
	}); err != nil {
		return nil, fmt.Errorf("append agent message: %w", err)
	}

	if !needsHuman {
		return &ChatResult{Response: cleaned, Escalated: false}, nil
	}

	metrics.EscalationsTotal.Inc()
	notice, ticket := s.escalateToHuman(ctx, sess, in)
	if notice == "" {
		notice = "Your query has been escalated to our human support team. A support agent will assist you shortly."
	}
	return &ChatResult{
		Response:  cleaned,
		Escalated: true,
		Message:   notice,
		TicketID:  ticketID(ticket),
	}, nil
}

func (s *ChatService) loadOrCreateSession(ctx context.Context, in HandleMessageInput) (*model.ChatSession, error) {
	sess, err := s.store.GetSessionWithChatbot(ctx, in.SessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, errs.ErrSessionNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}
	bot, err := s.store.GetChatbot(ctx, in.ChatbotID)
	if err != nil {
		return nil, err
	}
	sess = &model.ChatSession{
		ID:        in.SessionID,
		ChatbotID: in.ChatbotID,
		UserID:    in.UserID,
		Status:    model.SessionStatusActive,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	sess.Chatbot = bot
	return sess, nil
}

// handleHandedOffSession — тупиковая ветка для уже переданных сессий: агент
// не вызывается, тикеты не создаются, пользователю уходит подтверждение.
func (s *ChatService) handleHandedOffSession(ctx context.Context, sess *model.ChatSession) (*ChatResult, error) {
	ticket, err := s.store.LatestTicketBySession(ctx, sess.ID)
	if err != nil && !errors.Is(err, errs.ErrTicketNotFound) {
		zap.S().Errorw("chat: lookup ticket for handed-off session", "session_id", sess.ID, "error", err)
	}
	if ticket != nil && ticket.AssignedUser != nil {
		return &ChatResult{
			Response:   fmt.Sprintf("Your message has been received. You are currently connected to %s. They will respond to you shortly.", ticket.AssignedUser.Name),
			Escalated:  true,
			TicketID:   ticket.ID,
			AssignedTo: ticket.AssignedUser,
		}, nil
	}
	return &ChatResult{
		Response:  "Your query is being handled by our support team. Please wait for a response.",
		Escalated: true,
		TicketID:  ticketID(ticket),
	}, nil
}

// escalateToHuman создаёт тикет, пишет уведомление в журнал и переводит сессию
// в HANDED_OFF. Сбои внутри эскалации не валят запрос: ответ агента уже
// сохранён, пользователь получает хотя бы его.
func (s *ChatService) escalateToHuman(ctx context.Context, sess *model.ChatSession, in HandleMessageInput) (string, *model.Ticket) {
	assignee := s.assigner.SelectLeastLoaded(ctx, sess.ChatbotID)

	ticket, created, err := s.createTicket(ctx, sess, in, assignee)
	if err != nil {
		zap.S().Errorw("chat: create escalation ticket", "session_id", sess.ID, "error", err)
		return "", nil
	}

	notice := handoffNotice(ticket)
	if created {
		if err := s.appendMessage(ctx, &model.Message{
			SessionID: sess.ID,
			Content:   notice,
			Sender:    model.SenderAgent,
		}); err != nil {
			zap.S().Errorw("chat: append handoff notice", "session_id", sess.ID, "error", err)
		}
		metrics.TicketsCreatedTotal.WithLabelValues(fmt.Sprintf("%t", ticket.AssignedTo != nil)).Inc()
		s.publishTicketEvent("ticket.created", ticket)
	}

	now := time.Now()
	if err := s.store.MarkSessionHandedOff(ctx, sess.ID, now); err != nil {
		zap.S().Errorw("chat: mark session handed off", "session_id", sess.ID, "error", err)
	}

	return notice, ticket
}

// createTicket возвращает (ticket, created, err). При заданном ключе
// идемпотентности повторная эскалация возвращает уже существующий тикет.
func (s *ChatService) createTicket(ctx context.Context, sess *model.ChatSession, in HandleMessageInput, assignee *assignment.SupportUserWithCount) (*model.Ticket, bool, error) {
	if in.IdempotencyKey != "" {
		existing, err := s.store.TicketByEscalationKey(ctx, in.IdempotencyKey)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, errs.ErrTicketNotFound) {
			return nil, false, err
		}
	}

	ticket := &model.Ticket{
		Subject:   ticketSubject(in.Message),
		ChatbotID: sess.ChatbotID,
		SessionID: sess.ID,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		ticket.EscalationKey = &key
	}
	if assignee != nil {
		id := assignee.ID
		ticket.AssignedTo = &id
		ticket.AssignedUser = &model.CustomerSupportUser{
			ID:        assignee.ID,
			ChatbotID: sess.ChatbotID,
			Name:      assignee.Name,
			Email:     assignee.Email,
		}
	}
	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		// Гонка двух ретраев с одним ключом: проигравший забирает чужой тикет.
		if in.IdempotencyKey != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := s.store.TicketByEscalationKey(ctx, in.IdempotencyKey)
			if lookupErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return ticket, true, nil
}

// SendSupportMessage — ответ живого саппорта в сессию. Эскалационной логики
// здесь нет и состояние тикетов не меняется.
func (s *ChatService) SendSupportMessage(ctx context.Context, sessionID, supportUserID, text string) (*model.Message, error) {
	supportUser, err := s.store.GetSupportUser(ctx, supportUserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetSessionWithChatbot(ctx, sessionID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		SessionID: sessionID,
		Content:   text,
		Sender:    model.SenderSupport,
		SenderID:  &supportUser.ID,
	}
	if err := s.appendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("append support message: %w", err)
	}
	msg.SupportAgent = supportUser
	return msg, nil
}

// GetChatHistory — журнал сессии в порядке вставки, без пагинации.
func (s *ChatService) GetChatHistory(ctx context.Context, sessionID string) ([]model.Message, error) {
	return s.store.ListMessages(ctx, sessionID)
}

// GetSessionInfo — сессия с тикетами и их исполнителями.
func (s *ChatService) GetSessionInfo(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	return s.store.GetSessionWithTickets(ctx, sessionID)
}

func (s *ChatService) appendMessage(ctx context.Context, m *model.Message) error {
	if err := s.store.AppendMessage(ctx, m); err != nil {
		return err
	}
	metrics.MessagesTotal.WithLabelValues(string(m.Sender)).Inc()
	return nil
}

// publishTicketEvent — fire-and-forget: событие должно уйти даже при отмене
// запроса, но с таймаутом.
func (s *ChatService) publishTicketEvent(event string, t *model.Ticket) {
	if s.producer == nil {
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
		eventCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.producer.ProduceTicketEvent(eventCtx, event, payload)
	}()
}

func ticketSubject(message string) string {
	runes := []rune(message)
	if len(runes) > subjectMaxLen {
		runes = runes[:subjectMaxLen]
	}
	return fmt.Sprintf("Customer Query: %s...", string(runes))
}

func handoffNotice(t *model.Ticket) string {
	if t.AssignedUser != nil {
		return fmt.Sprintf("Chat has been transferred to %s (%s). Ticket #%d has been created.",
			t.AssignedUser.Name, t.AssignedUser.Email, t.ID)
	}
	return fmt.Sprintf("Currently, support user is not available. Our support team will assist you shortly. Ticket #%d has been created.", t.ID)
}

func ticketID(t *model.Ticket) uint64 {
	if t == nil {
		return 0
	}
	return t.ID
}
