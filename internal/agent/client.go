package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/psds-microservice/chatbot-service/internal/errs"
)

// Agent — интерфейс vendor API (для подмены моком в тестах).
type Agent interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	CreateAgent(ctx context.Context, cfg AgentConfig) (string, error)
}

// ChatRequest — тело POST /v3/inference/chat/.
type ChatRequest struct {
	UserID    string `json:"user_id"`
	AgentID   string `json:"agent_id"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
}

// AgentConfig — тело POST /v3/agents/ (создание агента у провайдера).
type AgentConfig struct {
	Name            string                 `json:"name"`
	SystemPrompt    string                 `json:"system_prompt"`
	Description     string                 `json:"description"`
	Features        []Feature              `json:"features"`
	Tools           []string               `json:"tools"`
	LLMCredentialID string                 `json:"llm_credential_id"`
	ProviderID      string                 `json:"provider_id"`
	Model           string                 `json:"model"`
	TopP            float64                `json:"top_p"`
	Temperature     float64                `json:"temperature"`
	ResponseFormat  map[string]interface{} `json:"response_format,omitempty"`
}

type Feature struct {
	Type     string                 `json:"type"`
	Config   map[string]interface{} `json:"config"`
	Priority int                    `json:"priority"`
}

// Client ходит в hosted-LLM API. В отличие от best-effort индексации,
// ошибки здесь возвращаются вызывающему: без ответа агента запрос не обслужить.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.post(ctx, "/v3/inference/chat/", req, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrAgentUnavailable, err)
	}
	return &out, nil
}

func (c *Client) CreateAgent(ctx context.Context, cfg AgentConfig) (string, error) {
	var out struct {
		AgentID string `json:"agent_id"`
	}
	if err := c.post(ctx, "/v3/agents/", cfg, &out); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrAgentUnavailable, err)
	}
	if out.AgentID == "" {
		return "", fmt.Errorf("%w: empty agent_id in response", errs.ErrAgentUnavailable)
	}
	return out.AgentID, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
