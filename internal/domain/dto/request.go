// Package dto defines the HTTP request and response shapes. Requests are bound
// by gin and validated here before they reach the services.
package dto

import (
	"math"
	"strings"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/i18n"
)

// MaxCropsPerRequest caps multi-crop requests.
const MaxCropsPerRequest = 3

// ValidationError represents a field validation error. Key is the i18n
// message key and Code the machine-readable error code.
type ValidationError struct {
	Field   string
	Message string
	Code    string
	Key     string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrCropNameRequired is returned when crop_name is blank.
	ErrCropNameRequired = &ValidationError{Field: "crop_name", Message: "must not be empty", Code: ErrCodeInvalidInput, Key: i18n.ErrKeyInvalidRequest}
	// ErrNoCrops is returned when crop_names is empty.
	ErrNoCrops = &ValidationError{Field: "crop_names", Message: "at least one crop is required", Code: ErrCodeInvalidInput, Key: i18n.ErrKeyNoCrops}
	// ErrTooManyCrops is returned when crop_names exceeds MaxCropsPerRequest.
	ErrTooManyCrops = &ValidationError{Field: "crop_names", Message: "at most 3 crops are allowed", Code: ErrCodeTooManyCrops, Key: i18n.ErrKeyTooManyCrops}
	// ErrInvalidArea is returned for a non-positive or non-finite farm area.
	ErrInvalidArea = &ValidationError{Field: "farm_area_m2", Message: "must be greater than zero", Code: ErrCodeInvalidInput, Key: i18n.ErrKeyInvalidArea}
	// ErrEmptyMessage is returned for a blank chat message.
	ErrEmptyMessage = &ValidationError{Field: "message", Message: "must not be empty", Code: ErrCodeInvalidInput, Key: i18n.ErrKeyEmptyMessage}
)

// SoilInput is a partial soil sample. Omitted fields take the farm profile
// value.
//
// @Description Soil test values; omitted fields default to the farm profile
type SoilInput struct {
	PH                     *float64 `json:"ph,omitempty" example:"6.5"`
	OrganicMatter          *float64 `json:"organic_matter,omitempty" example:"22"`
	AvailablePhosphate     *float64 `json:"available_phosphate,omitempty" example:"10"`
	Potassium              *float64 `json:"potassium,omitempty" example:"4"`
	Calcium                *float64 `json:"calcium,omitempty" example:"6"`
	Magnesium              *float64 `json:"magnesium,omitempty" example:"13"`
	ElectricalConductivity *float64 `json:"electrical_conductivity,omitempty" example:"6"`
} // @name SoilInput

// Merge overlays the provided fields onto defaults.
func (s *SoilInput) Merge(defaults model.SoilSample) model.SoilSample {
	if s == nil {
		return defaults
	}
	out := defaults
	pick(&out.PH, s.PH)
	pick(&out.OrganicMatter, s.OrganicMatter)
	pick(&out.AvailablePhosphate, s.AvailablePhosphate)
	pick(&out.Potassium, s.Potassium)
	pick(&out.Calcium, s.Calcium)
	pick(&out.Magnesium, s.Magnesium)
	pick(&out.ElectricalConductivity, s.ElectricalConductivity)
	return out
}

func pick(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// farmInputs is shared by every request that runs the recommendation
// pipeline.
type farmInputs struct {
	Soil       *SoilInput `json:"soil,omitempty"`
	FarmAreaM2 *float64   `json:"farm_area_m2,omitempty" example:"25000"`
}

// Resolve returns the soil sample and farm area to use, falling back to farm.
func (f farmInputs) Resolve(farm model.FarmProfile) (model.SoilSample, float64) {
	area := farm.AreaM2
	if f.FarmAreaM2 != nil {
		area = *f.FarmAreaM2
	}
	return f.Soil.Merge(farm.Soil), area
}

func (f farmInputs) validate() error {
	if f.FarmAreaM2 != nil {
		a := *f.FarmAreaM2
		if math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
			return ErrInvalidArea
		}
	}
	return nil
}

// RecommendationRequest is the body of POST /api/fertilizer-prescription.
//
// @Description Single-crop recommendation request
type RecommendationRequest struct {
	CropName string `json:"crop_name" binding:"required" example:"맥주보리"`
	farmInputs
} // @name RecommendationRequest

// Validate trims the crop name and checks the optional fields.
func (r *RecommendationRequest) Validate() error {
	r.CropName = strings.TrimSpace(r.CropName)
	if r.CropName == "" {
		return ErrCropNameRequired
	}
	return r.farmInputs.validate()
}

// MultiRecommendationRequest is the body of
// POST /api/fertilizer-prescription/multiple.
//
// @Description Multi-crop recommendation request
type MultiRecommendationRequest struct {
	CropNames []string `json:"crop_names" example:"맥주보리,콩"`
	farmInputs
} // @name MultiRecommendationRequest

// Validate enforces the 1..3 crop count and trims names. Blank names are
// kept so the batch reports them as failures.
func (r *MultiRecommendationRequest) Validate() error {
	if err := validateCropNames(r.CropNames); err != nil {
		return err
	}
	for i := range r.CropNames {
		r.CropNames[i] = strings.TrimSpace(r.CropNames[i])
	}
	return r.farmInputs.validate()
}

// TrackedCropsRequest replaces the tracked crop set and, when soil or area is
// given, runs recommendations with them.
//
// @Description Tracked crop update
type TrackedCropsRequest struct {
	CropNames []string `json:"crop_names" example:"맥주보리,밀,콩"`
	farmInputs
} // @name TrackedCropsRequest

// Validate enforces the 1..3 crop count.
func (r *TrackedCropsRequest) Validate() error {
	if err := validateCropNames(r.CropNames); err != nil {
		return err
	}
	return r.farmInputs.validate()
}

func validateCropNames(names []string) error {
	switch {
	case len(names) == 0:
		return ErrNoCrops
	case len(names) > MaxCropsPerRequest:
		return ErrTooManyCrops
	}
	return nil
}

// ChatRequest is the body of POST /api/chat.
//
// @Description Chat question
type ChatRequest struct {
	Message string `json:"message" example:"노린재 방제는 언제 하나요?"`
} // @name ChatRequest

// Validate rejects blank messages.
func (r *ChatRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		return ErrEmptyMessage
	}
	return nil
}

// LogsQuery holds the query parameters of GET /api/logs. Start and End
// bound the entry timestamp inclusively and are RFC 3339.
type LogsQuery struct {
	RequestID  string     `form:"request_id"`
	Level      string     `form:"level"`
	ActionType string     `form:"action_type"`
	Path       string     `form:"path"`
	Start      *time.Time `form:"start" time_format:"2006-01-02T15:04:05Z07:00"`
	End        *time.Time `form:"end" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int        `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	Skip       int        `form:"skip" binding:"omitempty,min=0"`
}

// Options converts the query into log store filters.
func (q LogsQuery) Options() model.LogQueryOptions {
	return model.LogQueryOptions{
		RequestID:  q.RequestID,
		Level:      q.Level,
		ActionType: q.ActionType,
		Path:       q.Path,
		StartTime:  q.Start,
		EndTime:    q.End,
		Limit:      q.Limit,
		Skip:       q.Skip,
	}
}
