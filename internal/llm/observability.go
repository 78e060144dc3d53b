package llm

import (
	"time"

	"github.com/guttosm/fertilizer-service/internal/metrics"
	"github.com/rs/zerolog/log"
)

// CallEvent records metadata about a single generation call.
type CallEvent struct {
	Task      TaskType
	Model     string
	Latency   time.Duration
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about generation calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// MetricsObserver records calls in Prometheus and the debug log.
type MetricsObserver struct{}

// OnCallComplete implements Observer.
func (MetricsObserver) OnCallComplete(event CallEvent) {
	result := "success"
	if !event.Success {
		result = event.ErrorCode
	}
	metrics.RecordLLMCall(string(event.Task), result, event.Latency)

	log.Debug().
		Str("task", string(event.Task)).
		Str("model", event.Model).
		Int("attempts", event.Attempts).
		Dur("latency", event.Latency).
		Str("result", result).
		Msg("llm call")
}

// NoopObserver discards all events.
type NoopObserver struct{}

// OnCallComplete implements Observer.
func (NoopObserver) OnCallComplete(CallEvent) {}
