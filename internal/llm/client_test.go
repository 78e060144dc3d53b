package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() CallEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "질문", req.Prompt)
		assert.Equal(t, 8, req.Options.NumPredict)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: " SEARCH\n"})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewOllamaClient(testConfig(srv.URL+"/"), obs)
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskRoute,
		SystemPrompt: "system prompt",
		Prompt:       "질문",
	})

	require.NoError(t, err)
	assert.Equal(t, "SEARCH", resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.True(t, obs.last().Success)
	assert.Equal(t, 1, obs.last().Attempts)
}

func TestOllamaClient_Generate_Disabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Enabled = false

	_, err := NewOllamaClient(cfg, nil).Generate(context.Background(), GenerateRequest{Task: TaskDirect})

	assert.ErrorIs(t, err, ErrDisabled)
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskRoute: {Timeout: 50 * time.Millisecond},
	}

	obs := &recordingObserver{}
	_, err := NewOllamaClient(cfg, obs).Generate(context.Background(), GenerateRequest{Task: TaskRoute, Prompt: "x"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "timeout", obs.last().ErrorCode)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg, nil).Generate(context.Background(), GenerateRequest{Task: TaskDirect, Prompt: "x"})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOllamaClient_Generate_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "답변"})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	resp, err := NewOllamaClient(testConfig(srv.URL), obs).Generate(context.Background(), GenerateRequest{Task: TaskAnswer, Prompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "답변", resp.Text)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, obs.last().Attempts)
}

func TestOllamaClient_Generate_RetryExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(testConfig(srv.URL), nil).Generate(context.Background(), GenerateRequest{Task: TaskAnswer, Prompt: "x"})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "status 502")
}

func TestOllamaClient_Generate_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "   "})
	}))
	defer srv.Close()

	_, err := NewOllamaClient(testConfig(srv.URL), nil).Generate(context.Background(), GenerateRequest{Task: TaskAnswer, Prompt: "x"})

	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig(srv.URL), nil).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), nil).Available(context.Background()))

	disabled := testConfig(srv.URL)
	disabled.Enabled = false
	assert.False(t, NewOllamaClient(disabled, nil).Available(context.Background()))
}

func TestConfig_TaskTimeout(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5*time.Second, cfg.TaskTimeout(TaskRoute))
	assert.Equal(t, 20*time.Second, cfg.TaskTimeout(TaskAnswer))

	cfg.Timeout = 0
	assert.Equal(t, 20*time.Second, cfg.TaskTimeout(TaskType("unknown")))
}
