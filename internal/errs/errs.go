package errs

import "errors"

var (
	ErrChatbotNotFound     = errors.New("chatbot not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSupportUserNotFound = errors.New("support user not found")
	ErrTicketNotFound      = errors.New("ticket not found")

	// ErrAgentNotConfigured — у чат-бота нет agent_id: вызов провайдера невозможен.
	ErrAgentNotConfigured = errors.New("agent not initialized for chatbot")

	// ErrAgentUnavailable — сбой/таймаут vendor API, запрос можно повторить.
	ErrAgentUnavailable = errors.New("agent service unavailable")
)
