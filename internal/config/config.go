package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEscalationMarker — фраза, которой агент сигнализирует о передаче
// диалога человеку. Переопределяется через ESCALATION_MARKER.
const DefaultEscalationMarker = "[SWITCH_TO_HUMAN]"

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// AgentAPIURL — база vendor API (POST /v3/inference/chat/). Обязателен для режима api.
	AgentAPIURL  string
	AgentAPIKey  string
	AgentTimeout time.Duration

	EscalationMarker string

	KafkaBrokers     []string
	KafkaTopicTicket string

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:          getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:         firstEnv("APP_PORT", "HTTP_PORT", "8099"),
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AgentAPIURL:      getEnv("AGENT_API_URL", ""),
		AgentAPIKey:      getEnv("AGENT_API_KEY", ""),
		EscalationMarker: getEnv("ESCALATION_MARKER", DefaultEscalationMarker),
		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicTicket: getEnv("KAFKA_TOPIC_TICKET", ""),
	}
	timeout, err := time.ParseDuration(getEnv("AGENT_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("config: AGENT_TIMEOUT: %w", err)
	}
	cfg.AgentTimeout = timeout
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "chatbot_service")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("config: DB_HOST and DB_DATABASE are required")
	}
	if c.AppEnv == "production" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	if c.EscalationMarker == "" {
		return errors.New("config: ESCALATION_MARKER must not be empty")
	}
	return nil
}

// ValidateAPI — дополнительные требования режима api (migrate работает без них).
func (c *Config) ValidateAPI() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.AgentAPIURL == "" {
		return errors.New("config: AGENT_API_URL is required")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func splitList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
