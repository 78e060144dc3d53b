// Package llm is a small client for an Ollama-compatible text generation server.
package llm

import "time"

// TaskType identifies what a generation call is for.
type TaskType string

const (
	// TaskRoute decides whether a question needs document search.
	TaskRoute TaskType = "route"
	// TaskDirect answers from the farm profile alone.
	TaskDirect TaskType = "direct"
	// TaskAnswer answers from retrieved passages.
	TaskAnswer TaskType = "answer"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // overrides Config.Timeout if > 0
}

// Config holds the client configuration.
type Config struct {
	Enabled    bool
	Endpoint   string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns a disabled configuration pointing at a local server.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		Timeout:    20 * time.Second,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			// routing must answer with a single word
			TaskRoute:  {Temperature: 0, MaxTokens: 8, Timeout: 5 * time.Second},
			TaskDirect: {Temperature: 0.3, MaxTokens: 1024},
			TaskAnswer: {Temperature: 0.2, MaxTokens: 2048},
		},
	}
}

// TaskTimeout returns the effective timeout for task.
func (c Config) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.Timeout > 0 {
		return tc.Timeout
	}
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultConfig().Timeout
}
