package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/psds-microservice/chatbot-service/internal/errs"
	"github.com/psds-microservice/chatbot-service/internal/model"
)

// TicketServicer — интерфейс тикетных операций (Dependency Inversion).
type TicketServicer interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
	ListByChatbot(ctx context.Context, chatbotID string, limit, offset int) ([]model.Ticket, int64, error)
	Reassign(ctx context.Context, id uint64, supportUserID string) (*model.Ticket, error)
}

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

func (s *TicketService) Create(ctx context.Context, t *model.Ticket) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *TicketService) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.WithContext(ctx).Preload("AssignedUser").First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *TicketService) ListByChatbot(ctx context.Context, chatbotID string, limit, offset int) ([]model.Ticket, int64, error) {
	var items []model.Ticket
	var total int64
	tx := s.db.WithContext(ctx).Model(&model.Ticket{}).Where("chatbot_id = ?", chatbotID)
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if err := tx.Preload("AssignedUser").Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Reassign переводит тикет на другого саппорт-пользователя (админ-операция,
// эскалационный путь её не использует).
func (s *TicketService) Reassign(ctx context.Context, id uint64, supportUserID string) (*model.Ticket, error) {
	var u model.CustomerSupportUser
	if err := s.db.WithContext(ctx).First(&u, "id = ?", supportUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSupportUserNotFound
		}
		return nil, err
	}
	var t model.Ticket
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&t).Update("assigned_to", supportUserID).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
