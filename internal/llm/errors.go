package llm

import "errors"

var (
	// ErrDisabled indicates the language model is switched off in configuration.
	ErrDisabled = errors.New("llm disabled")

	// ErrUnavailable indicates the model server is unreachable.
	ErrUnavailable = errors.New("llm server unavailable")

	// ErrTimeout indicates the request exceeded the task timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the model returned an empty or unusable answer.
	ErrInvalidOutput = errors.New("invalid llm output")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
