package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/psds-microservice/chatbot-service/internal/errs"
	"github.com/psds-microservice/chatbot-service/internal/model"
)

// Store — gorm-реализация service.ChatStore.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetChatbot(ctx context.Context, id string) (*model.Chatbot, error) {
	var bot model.Chatbot
	if err := s.db.WithContext(ctx).First(&bot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrChatbotNotFound
		}
		return nil, err
	}
	return &bot, nil
}

func (s *Store) GetSessionWithChatbot(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	var sess model.ChatSession
	err := s.db.WithContext(ctx).
		Preload("Chatbot").
		First(&sess, "id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *Store) GetSessionWithTickets(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	var sess model.ChatSession
	err := s.db.WithContext(ctx).
		Preload("Tickets", func(db *gorm.DB) *gorm.DB {
			return db.Order("tickets.created_at ASC")
		}).
		Preload("Tickets.AssignedUser").
		First(&sess, "id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *Store) CreateSession(ctx context.Context, sess *model.ChatSession) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

func (s *Store) MarkSessionHandedOff(ctx context.Context, sessionID string, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":        model.SessionStatusHandedOff,
			"handed_off":    true,
			"handed_off_at": at,
		}).Error
}

func (s *Store) AppendMessage(ctx context.Context, m *model.Message) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]model.Message, error) {
	var msgs []model.Message
	err := s.db.WithContext(ctx).
		Preload("SupportAgent").
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *Store) CreateTicket(ctx context.Context, t *model.Ticket) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) LatestTicketBySession(ctx context.Context, sessionID string) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.WithContext(ctx).
		Preload("AssignedUser").
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) TicketByEscalationKey(ctx context.Context, key string) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.WithContext(ctx).
		Preload("AssignedUser").
		Where("escalation_key = ?", key).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetSupportUser(ctx context.Context, id string) (*model.CustomerSupportUser, error) {
	var u model.CustomerSupportUser
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSupportUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
