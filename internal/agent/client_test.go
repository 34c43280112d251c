package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psds-microservice/chatbot-service/internal/errs"
)

func TestChatSendsRequestAndParsesResponse(t *testing.T) {
	var gotPath, gotKey string
	var gotReq ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(ChatResponse{Response: "Hello!", AgentID: gotReq.AgentID, SessionID: gotReq.SessionID})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	resp, err := c.Chat(context.Background(), ChatRequest{
		UserID: "u-1", AgentID: "a-1", Message: "hi", SessionID: "s-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", resp.Response)
	assert.Equal(t, "/v3/inference/chat/", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "hi", gotReq.Message)
	assert.Equal(t, "u-1", gotReq.UserID)
}

func TestChatUpstreamErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})
	require.ErrorIs(t, err, errs.ErrAgentUnavailable)
}

func TestChatConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", time.Second)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})
	require.ErrorIs(t, err, errs.ErrAgentUnavailable)
}

func TestCreateAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/agents/", r.URL.Path)
		var cfg AgentConfig
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cfg))
		assert.Equal(t, "Acme Support", cfg.Name)
		json.NewEncoder(w).Encode(map[string]string{"agent_id": "agent-42"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	id, err := c.CreateAgent(context.Background(), AgentConfig{Name: "Acme Support"})
	require.NoError(t, err)
	assert.Equal(t, "agent-42", id)
}

func TestCreateAgentEmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.CreateAgent(context.Background(), AgentConfig{Name: "x"})
	require.ErrorIs(t, err, errs.ErrAgentUnavailable)
}
