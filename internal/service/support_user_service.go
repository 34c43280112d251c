package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/psds-microservice/chatbot-service/internal/assignment"
	"github.com/psds-microservice/chatbot-service/internal/errs"
	"github.com/psds-microservice/chatbot-service/internal/model"
)

// SupportUserService — ростер саппорт-пользователей чат-бота.
type SupportUserService struct {
	db       *gorm.DB
	balancer *assignment.Balancer
}

func NewSupportUserService(db *gorm.DB, balancer *assignment.Balancer) *SupportUserService {
	return &SupportUserService{db: db, balancer: balancer}
}

func (s *SupportUserService) Create(ctx context.Context, chatbotID, name, email string) (*model.CustomerSupportUser, error) {
	var bot model.Chatbot
	if err := s.db.WithContext(ctx).First(&bot, "id = ?", chatbotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrChatbotNotFound
		}
		return nil, err
	}
	u := &model.CustomerSupportUser{
		ID:        uuid.NewString(),
		ChatbotID: chatbotID,
		Name:      name,
		Email:     email,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// ListWithStats — ростер с текущими счётчиками тикетов (для админ-панели).
func (s *SupportUserService) ListWithStats(ctx context.Context, chatbotID string) ([]assignment.SupportUserWithCount, error) {
	return s.balancer.ListWithCounts(ctx, chatbotID)
}

func (s *SupportUserService) GetByID(ctx context.Context, id string) (*model.CustomerSupportUser, error) {
	var u model.CustomerSupportUser
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSupportUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
