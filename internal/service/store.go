package service

import (
	"context"
	"time"

	"github.com/psds-microservice/chatbot-service/internal/model"
)

// ChatStore — операции персистентности, нужные оркестратору диалога
// (D: зависимость от абстракций; gorm-реализация в internal/storage).
type ChatStore interface {
	GetChatbot(ctx context.Context, id string) (*model.Chatbot, error)
	GetSessionWithChatbot(ctx context.Context, sessionID string) (*model.ChatSession, error)
	GetSessionWithTickets(ctx context.Context, sessionID string) (*model.ChatSession, error)
	CreateSession(ctx context.Context, s *model.ChatSession) error
	MarkSessionHandedOff(ctx context.Context, sessionID string, at time.Time) error

	AppendMessage(ctx context.Context, m *model.Message) error
	ListMessages(ctx context.Context, sessionID string) ([]model.Message, error)

	CreateTicket(ctx context.Context, t *model.Ticket) error
	LatestTicketBySession(ctx context.Context, sessionID string) (*model.Ticket, error)
	TicketByEscalationKey(ctx context.Context, key string) (*model.Ticket, error)

	GetSupportUser(ctx context.Context, id string) (*model.CustomerSupportUser, error)
}
