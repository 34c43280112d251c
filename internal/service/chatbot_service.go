package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/psds-microservice/chatbot-service/internal/agent"
	"github.com/psds-microservice/chatbot-service/internal/errs"
	"github.com/psds-microservice/chatbot-service/internal/model"
)

type CreateChatbotInput struct {
	OwnerID      string
	Name         string
	Description  string
	Instructions string
	Context      string
}

// ChatbotService — CRUD чат-ботов и инициализация vendor-агента.
type ChatbotService struct {
	db               *gorm.DB
	agent            agent.Agent
	escalationMarker string
}

func NewChatbotService(db *gorm.DB, ag agent.Agent, escalationMarker string) *ChatbotService {
	return &ChatbotService{db: db, agent: ag, escalationMarker: escalationMarker}
}

func (s *ChatbotService) Create(ctx context.Context, in CreateChatbotInput) (*model.Chatbot, error) {
	bot := &model.Chatbot{
		ID:           uuid.NewString(),
		OwnerID:      in.OwnerID,
		Name:         in.Name,
		Description:  in.Description,
		Instructions: in.Instructions,
		Context:      in.Context,
	}
	if err := s.db.WithContext(ctx).Create(bot).Error; err != nil {
		return nil, err
	}
	return bot, nil
}

func (s *ChatbotService) GetByID(ctx context.Context, id string) (*model.Chatbot, error) {
	var bot model.Chatbot
	if err := s.db.WithContext(ctx).First(&bot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrChatbotNotFound
		}
		return nil, err
	}
	return &bot, nil
}

// InitializeAgent создаёт агента у провайдера и сохраняет его id.
// Повторный вызов пересоздаёт агента (старый id затирается).
func (s *ChatbotService) InitializeAgent(ctx context.Context, chatbotID string) (*model.Chatbot, error) {
	bot, err := s.GetByID(ctx, chatbotID)
	if err != nil {
		return nil, err
	}

	cfg := agent.AgentConfig{
		Name:         bot.Name,
		SystemPrompt: s.systemPrompt(bot),
		Description:  bot.Description,
		Features: []agent.Feature{
			{Type: "SHORT_TERM_MEMORY", Config: map[string]interface{}{}, Priority: 0},
		},
		Tools:           []string{},
		ProviderID:      "openai",
		Model:           "gpt-4o-mini",
		TopP:            0.9,
		Temperature:     0.7,
		LLMCredentialID: "lyzr_openai",
		ResponseFormat:  map[string]interface{}{},
	}
	if cfg.Description == "" {
		cfg.Description = fmt.Sprintf("AI-powered customer support agent for %s that handles customer queries", bot.Name)
	}

	agentID, err := s.agent.CreateAgent(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(bot).Update("agent_id", agentID).Error; err != nil {
		return nil, err
	}
	bot.AgentID = agentID
	return bot, nil
}

// systemPrompt собирает промпт саппорт-агента; инструкция с маркером эскалации
// должна совпадать с тем, что ждёт Detector.
func (s *ChatbotService) systemPrompt(bot *model.Chatbot) string {
	prompt := fmt.Sprintf("You are a helpful Customer Support Agent for %s.\n\n", bot.Name)
	if bot.Context != "" {
		prompt += fmt.Sprintf("CONTEXT: %s\n\n", bot.Context)
	}
	prompt += fmt.Sprintf("INSTRUCTIONS: %s\n\n", bot.Instructions)
	prompt += `Your role is to:
1. Handle complaints professionally and empathetically
2. Provide troubleshooting guidance and solutions
3. Be friendly, professional, and helpful at all times
4. If you cannot resolve an issue or don't have enough information, politely indicate that you need to switch to a human agent

`
	prompt += fmt.Sprintf("IMPORTANT: If you cannot provide a satisfactory answer or resolve the customer's issue, respond with exactly this phrase at the end of your message: %q\n\n", s.escalationMarker)
	prompt += "Always try your best to help first, but don't hesitate to escalate when needed."
	return prompt
}
