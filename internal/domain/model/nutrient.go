// Package model defines the core domain entities for the fertilizer service.
package model

import "math"

// Phase identifies when a fertilizer is applied relative to planting.
type Phase string

const (
	// PhaseBase is the pre-planting (basal) application.
	PhaseBase Phase = "base"
	// PhaseTopdress is the post-planting supplemental application.
	PhaseTopdress Phase = "topdress"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	return p == PhaseBase || p == PhaseTopdress
}

// ParsePhase accepts the canonical names plus the aliases used by the
// upstream API ("pre", "post", "additional").
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case "base", "basal", "pre":
		return PhaseBase, true
	case "topdress", "additional", "post":
		return PhaseTopdress, true
	}
	return "", false
}

// NPK holds nitrogen, phosphate (P2O5) and potash (K2O) quantities.
// The unit depends on context: kg per 1000 m², absolute kg, or grade percent.
//
// @Description Nitrogen, phosphate and potash amounts
type NPK struct {
	N float64 `json:"n" example:"4.9"`
	P float64 `json:"p" example:"24.8"`
	K float64 `json:"k" example:"3.0"`
}

// Scale multiplies every component by factor.
func (v NPK) Scale(factor float64) NPK {
	return NPK{N: v.N * factor, P: v.P * factor, K: v.K * factor}
}

// Round rounds every component to the given number of decimals.
func (v NPK) Round(decimals int) NPK {
	return NPK{N: Round(v.N, decimals), P: Round(v.P, decimals), K: Round(v.K, decimals)}
}

// HasNegative reports whether any component is below zero or not a number.
func (v NPK) HasNegative() bool {
	for _, x := range [3]float64{v.N, v.P, v.K} {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

// IsZero reports whether all components are zero.
func (v NPK) IsZero() bool {
	return v.N == 0 && v.P == 0 && v.K == 0
}

// Round rounds x half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	r := math.Round(x*pow) / pow
	if r == 0 {
		// normalize -0
		return 0
	}
	return r
}
