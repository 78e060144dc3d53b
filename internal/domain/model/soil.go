package model

import (
	"fmt"
	"math"
)

// SoilSample is a laboratory soil test. It is immutable per request.
//
// @Description Soil test values used to request a fertilizer prescription
type SoilSample struct {
	// PH is the soil acidity.
	PH float64 `json:"ph" example:"6.5"`
	// OrganicMatter in g/kg.
	OrganicMatter float64 `json:"organic_matter" example:"22"`
	// AvailablePhosphate in mg/kg.
	AvailablePhosphate float64 `json:"available_phosphate" example:"10"`
	// Potassium, Calcium and Magnesium are exchangeable cations in cmol+/kg.
	Potassium float64 `json:"potassium" example:"4"`
	Calcium   float64 `json:"calcium" example:"6"`
	Magnesium float64 `json:"magnesium" example:"13"`
	// ElectricalConductivity in dS/m.
	ElectricalConductivity float64 `json:"electrical_conductivity" example:"6"`
}

// SoilFieldError describes a soil field that failed validation.
type SoilFieldError struct {
	Field   string
	Message string
}

func (e *SoilFieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks that every field is a finite, physically possible value.
func (s SoilSample) Validate() error {
	if bad(s.PH) || s.PH <= 0 || s.PH > 14 {
		return &SoilFieldError{Field: "ph", Message: "must be within (0, 14]"}
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"organic_matter", s.OrganicMatter},
		{"available_phosphate", s.AvailablePhosphate},
		{"potassium", s.Potassium},
		{"calcium", s.Calcium},
		{"magnesium", s.Magnesium},
		{"electrical_conductivity", s.ElectricalConductivity},
	}
	for _, f := range fields {
		if bad(f.value) || f.value < 0 {
			return &SoilFieldError{Field: f.name, Message: "must be a non-negative number"}
		}
	}
	return nil
}

// Key returns a stable string identifying the sample, used for caching.
func (s SoilSample) Key() string {
	return fmt.Sprintf("%g|%g|%g|%g|%g|%g|%g",
		s.PH, s.OrganicMatter, s.AvailablePhosphate,
		s.Potassium, s.Calcium, s.Magnesium, s.ElectricalConductivity)
}

func bad(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
