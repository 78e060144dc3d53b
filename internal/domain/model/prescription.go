package model

// CompostRates are compost dosages in kg. Per 1000 m² on a prescription,
// absolute on a CompostNeed.
type CompostRates struct {
	Cattle  float64 `json:"cattle" example:"1500"`
	Pig     float64 `json:"pig" example:"330"`
	Chicken float64 `json:"chicken" example:"255"`
	Mixed   float64 `json:"mixed" example:"541"`
}

// HasNegative reports whether any rate is negative or not finite.
func (c CompostRates) HasNegative() bool {
	return NPK{N: c.Cattle, P: c.Pig, K: c.Chicken}.HasNegative() ||
		NPK{N: c.Mixed}.HasNegative()
}

// NutrientPrescription is the standard dosage per 1000 m² (10a) for one crop
// and soil sample. It is never mutated once produced.
//
// @Description Standard per-1000 m² prescription
type NutrientPrescription struct {
	CropCode string       `json:"crop_code" example:"01001"`
	CropName string       `json:"crop_name,omitempty" example:"맥주보리"`
	Base     NPK          `json:"base"`
	Topdress NPK          `json:"topdress"`
	Compost  CompostRates `json:"compost"`
}

// ForPhase returns the phase-specific nutrient dosage.
func (p NutrientPrescription) ForPhase(phase Phase) NPK {
	if phase == PhaseTopdress {
		return p.Topdress
	}
	return p.Base
}

// FarmNutrientNeed is the absolute nutrient quantity in kg for the whole farm.
//
// @Description Farm-scale nutrient totals in kg
type FarmNutrientNeed struct {
	Base     NPK `json:"base"`
	Topdress NPK `json:"topdress"`
}

// ForPhase returns the phase-specific need.
func (n FarmNutrientNeed) ForPhase(phase Phase) NPK {
	if phase == PhaseTopdress {
		return n.Topdress
	}
	return n.Base
}

// CompostNeed is the absolute compost quantity in kg for the whole farm.
//
// @Description Farm-scale compost totals in kg
type CompostNeed struct {
	CattleKg  float64 `json:"cattle_kg" example:"37500"`
	PigKg     float64 `json:"pig_kg" example:"8250"`
	ChickenKg float64 `json:"chicken_kg" example:"6375"`
	MixedKg   float64 `json:"mixed_kg" example:"13525"`
}

// Tons converts kg to metric tons rounded to one decimal.
func Tons(kg float64) float64 {
	return Round(kg/1000, 1)
}

// PrescriptionSource tells the caller whether the prescription came from the
// upstream API or from static fallback data.
type PrescriptionSource struct {
	Provider string `json:"provider" example:"soil_api"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
	Cached   bool   `json:"cached,omitempty"`
}

// SourcedPrescription pairs a prescription with its provenance.
type SourcedPrescription struct {
	Prescription NutrientPrescription
	Source       PrescriptionSource
}
