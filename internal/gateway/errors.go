// Package gateway holds the clients for the soil prescription and weather
// observation APIs and the resilience layer around them.
package gateway

import (
	"context"
	"errors"

	"github.com/guttosm/fertilizer-service/internal/circuitbreaker"
)

var (
	// ErrUpstreamStatus is returned for a non-200 HTTP response.
	ErrUpstreamStatus = errors.New("upstream returned an error status")
	// ErrAPIResult is returned when the API reports a failure code in its body.
	ErrAPIResult = errors.New("upstream reported a failed result")
	// ErrMalformedResponse is returned when the body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrNoData is returned when the response holds no usable record.
	ErrNoData = errors.New("no data in upstream response")
)

// failureReason is the short label used in metrics, logs and the degraded
// source reason.
func failureReason(err error) string {
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrUpstreamStatus):
		return "bad_status"
	case errors.Is(err, ErrAPIResult):
		return "api_error"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrNoData):
		return "no_data"
	default:
		return "transport_error"
	}
}
