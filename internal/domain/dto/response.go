package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/reference"
)

// Machine-readable error codes.
const (
	ErrCodeInvalidRequest      = "invalid_request"
	ErrCodeInvalidInput        = "invalid_input"
	ErrCodeUnsupportedCrop     = "unsupported_crop"
	ErrCodeTooManyCrops        = "too_many_crops"
	ErrCodeUpstreamUnavailable = "upstream_unavailable"
	ErrCodeNotFound            = "not_found"
	ErrCodeServiceUnavailable  = "service_unavailable"
	ErrCodeInternal            = "internal_error"
	ErrCodeRateLimit           = "rate_limit_exceeded"
	ErrCodeTimeout             = "timeout"
)

// DegradedHeader is set to "true" when any part of a response was computed
// from fallback data.
const DegradedHeader = "X-Degraded-Mode"

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	Data      interface{} `json:"data" swaggertype:"object"`
	Message   string      `json:"message,omitempty" example:"비료 추천이 완료되었습니다"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2025-04-01T09:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error     string            `json:"error" example:"unsupported_crop"`
	Message   string            `json:"message,omitempty" example:"지원하지 않는 작물입니다"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2025-04-01T09:00:00Z"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetail adds one entry to Details.
func (e ErrorResponse) WithDetail(key, value string) ErrorResponse {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// ErrCodeFromStatus returns the default error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusServiceUnavailable:
		return ErrCodeServiceUnavailable
	default:
		return ErrCodeInternal
	}
}

// CropsResponse lists supported crops.
// @Description Supported crops
type CropsResponse struct {
	Total      int              `json:"total" example:"46"`
	Categories []string         `json:"categories"`
	Crops      []reference.Crop `json:"crops"`
} // @name CropsResponse

// FertilizersResponse lists catalog products.
// @Description Fertilizer catalog
type FertilizersResponse struct {
	Phase       string                    `json:"phase,omitempty" example:"base"`
	Total       int                       `json:"total" example:"12"`
	Fertilizers []model.FertilizerProduct `json:"fertilizers"`
} // @name FertilizersResponse

// TrackedCropsResponse is the tracked set and its summary.
// @Description Tracked crops
type TrackedCropsResponse struct {
	Crops   []model.TrackedCrop   `json:"crops"`
	Summary model.TrackingSummary `json:"summary"`
} // @name TrackedCropsResponse

// TrackedUpdateResponse is returned after replacing the tracked set.
// @Description Tracked crop update result
type TrackedUpdateResponse struct {
	Crops           []model.TrackedCrop `json:"crops"`
	Recommendations *model.BatchResult  `json:"recommendations,omitempty"`
} // @name TrackedUpdateResponse

// WeatherResponse is the current observation for a station.
// @Description Current weather
type WeatherResponse struct {
	City    string                    `json:"city,omitempty" example:"구리시"`
	Weather *model.WeatherObservation `json:"weather"`
} // @name WeatherResponse

// ReloadResponse reports a reference data reload.
// @Description Reference reload result
type ReloadResponse struct {
	Source      string    `json:"source" example:"/etc/fertilizer/catalog"`
	Crops       int       `json:"crops" example:"46"`
	Fertilizers int       `json:"fertilizers" example:"12"`
	LoadedAt    time.Time `json:"loaded_at"`
} // @name ReloadResponse

// LogsResponse is a page of stored log entries.
// @Description Stored log entries
type LogsResponse struct {
	Total   int64            `json:"total" example:"120"`
	Actions map[string]int64 `json:"actions,omitempty"`
	Entries []model.LogEntry `json:"entries"`
} // @name LogsResponse
