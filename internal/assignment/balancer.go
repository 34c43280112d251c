package assignment

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/psds-microservice/chatbot-service/internal/model"
)

// SupportUserWithCount — саппорт-пользователь с числом назначенных тикетов.
type SupportUserWithCount struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	TicketCount int64  `json:"ticket_count"`
}

// Assigner выбирает исполнителя для эскалации (интерфейс для моков).
type Assigner interface {
	SelectLeastLoaded(ctx context.Context, chatbotID string) *SupportUserWithCount
}

// Balancer назначает тикеты по наименьшей загрузке. Счётчики не кэшируются:
// каждая эскалация читает актуальное состояние.
type Balancer struct {
	db *gorm.DB
}

func NewBalancer(db *gorm.DB) *Balancer {
	return &Balancer{db: db}
}

// SelectLeastLoaded возвращает наименее загруженного саппорт-пользователя
// чат-бота или nil, если роcтер пуст. Ошибки БД тоже дают nil: сбой подбора
// исполнителя не должен блокировать создание тикета.
func (b *Balancer) SelectLeastLoaded(ctx context.Context, chatbotID string) *SupportUserWithCount {
	users, err := b.ListWithCounts(ctx, chatbotID)
	if err != nil {
		zap.S().Errorw("assignment: list support users failed, escalating unassigned",
			"chatbot_id", chatbotID, "error", err)
		return nil
	}
	return pickLeastLoaded(users)
}

// ListWithCounts — роcтер чат-бота со счётчиками тикетов,
// отсортированный по (ticket_count, id).
func (b *Balancer) ListWithCounts(ctx context.Context, chatbotID string) ([]SupportUserWithCount, error) {
	var users []SupportUserWithCount
	err := b.db.WithContext(ctx).
		Model(&model.CustomerSupportUser{}).
		Select("customer_support_users.id, customer_support_users.name, customer_support_users.email, COUNT(tickets.id) AS ticket_count").
		Joins("LEFT JOIN tickets ON tickets.assigned_to = customer_support_users.id").
		Where("customer_support_users.chatbot_id = ?", chatbotID).
		Group("customer_support_users.id").
		Order("ticket_count ASC, customer_support_users.id ASC").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// pickLeastLoaded: первый пользователь с минимальным счётчиком в порядке слайса.
func pickLeastLoaded(users []SupportUserWithCount) *SupportUserWithCount {
	if len(users) == 0 {
		return nil
	}
	best := users[0]
	for _, u := range users[1:] {
		if u.TicketCount < best.TicketCount {
			best = u
		}
	}
	return &best
}
