package model

import "time"

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusHandedOff SessionStatus = "HANDED_OFF"
)

type Sender string

const (
	SenderUser    Sender = "USER"
	SenderAgent   Sender = "AGENT"
	SenderSupport Sender = "SUPPORT"
)

// Chatbot — корневая сущность: бот клиента с привязанным vendor-агентом.
// AgentID пустой, пока агент не создан у провайдера.
type Chatbot struct {
	ID           string `gorm:"type:varchar(64);primaryKey" json:"id"`
	OwnerID      string `gorm:"type:varchar(64);index" json:"owner_id,omitempty"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Description  string `gorm:"type:text" json:"description,omitempty"`
	Instructions string `gorm:"type:text" json:"instructions,omitempty"`
	Context      string `gorm:"type:text" json:"context,omitempty"`
	AgentID      string `gorm:"type:varchar(128);index" json:"agent_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatSession — диалог конечного пользователя с ботом. ID задаёт вызывающая
// сторона (виджет), поэтому строковый PK без автогенерации.
type ChatSession struct {
	ID          string        `gorm:"type:varchar(64);primaryKey" json:"id"`
	ChatbotID   string        `gorm:"type:varchar(64);index;not null" json:"chatbot_id"`
	UserID      string        `gorm:"type:varchar(64)" json:"user_id,omitempty"`
	Status      SessionStatus `gorm:"type:varchar(32);not null" json:"status"`
	HandedOff   bool          `gorm:"not null;default:false" json:"handed_off"`
	HandedOffAt *time.Time    `json:"handed_off_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Chatbot *Chatbot `gorm:"foreignKey:ChatbotID" json:"chatbot,omitempty"`
	Tickets []Ticket `gorm:"foreignKey:SessionID" json:"tickets,omitempty"`
}

// Message — append-only журнал диалога. Строки никогда не изменяются и не
// удаляются. SenderID заполнен только для sender=SUPPORT.
type Message struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	SessionID string  `gorm:"type:varchar(64);index;not null" json:"session_id"`
	Content   string  `gorm:"type:text;not null" json:"content"`
	Sender    Sender  `gorm:"type:varchar(16);not null" json:"sender"`
	SenderID  *string `gorm:"type:varchar(64);index" json:"sender_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	SupportAgent *CustomerSupportUser `gorm:"foreignKey:SenderID" json:"support_agent,omitempty"`
}

type CustomerSupportUser struct {
	ID        string `gorm:"type:varchar(64);primaryKey" json:"id"`
	ChatbotID string `gorm:"type:varchar(64);index;not null" json:"chatbot_id"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	Email     string `gorm:"type:varchar(255);not null" json:"email"`

	CreatedAt time.Time `json:"created_at"`
}

// Ticket — эскалированный вопрос. AssignedTo nullable: на момент создания
// может не быть ни одного саппорт-пользователя. EscalationKey — опциональный
// клиентский ключ идемпотентности (уникальный индекс в БД).
type Ticket struct {
	ID            uint64  `gorm:"primaryKey" json:"id"`
	Subject       string  `gorm:"type:varchar(255)" json:"subject,omitempty"`
	ChatbotID     string  `gorm:"type:varchar(64);index;not null" json:"chatbot_id"`
	SessionID     string  `gorm:"type:varchar(64);index;not null" json:"session_id"`
	AssignedTo    *string `gorm:"type:varchar(64);index" json:"assigned_to,omitempty"`
	EscalationKey *string `gorm:"type:varchar(128);uniqueIndex" json:"escalation_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AssignedUser *CustomerSupportUser `gorm:"foreignKey:AssignedTo" json:"assigned_user,omitempty"`
}
