package model

// Grade is a fertilizer's guaranteed nutrient composition in percent.
//
// @Description Guaranteed nutrient composition in percent
type Grade struct {
	N    float64 `json:"n" example:"21"`
	P2O5 float64 `json:"p2o5" example:"17"`
	K2O  float64 `json:"k2o" example:"17"`
}

// AsNPK returns the grade as an NPK triple in percent.
func (g Grade) AsNPK() NPK {
	return NPK{N: g.N, P: g.P2O5, K: g.K2O}
}

// FertilizerProduct is a static catalog entry.
//
// @Description Fertilizer catalog entry
type FertilizerProduct struct {
	ID        string  `json:"id" example:"base-001"`
	Name      string  `json:"name" example:"복합비료 21-17-17"`
	Grade     Grade   `json:"grade"`
	Phases    []Phase `json:"phases"`
	PackageKg float64 `json:"package_kg" example:"20"`
}

// SupportsPhase reports whether the product is applicable in phase.
func (f FertilizerProduct) SupportsPhase(phase Phase) bool {
	for _, p := range f.Phases {
		if p == phase {
			return true
		}
	}
	return false
}

// UsageRecommendation is the nitrogen-normalized usage of one product for one
// nutrient need. Computed per request and never persisted.
//
// @Description Product usage for a nutrient need
type UsageRecommendation struct {
	FertilizerID   string  `json:"fertilizer_id" example:"base-001"`
	FertilizerName string  `json:"fertilizer_name" example:"복합비료 21-17-17"`
	Grade          Grade   `json:"grade"`
	PackageKg      float64 `json:"package_kg" example:"20"`
	Score          float64 `json:"score" example:"12.3"`
	NeedNKg        float64 `json:"need_n_kg" example:"122.5"`
	NeedPKg        float64 `json:"need_p_kg" example:"620"`
	NeedKKg        float64 `json:"need_k_kg" example:"75"`
	UsageKg        float64 `json:"usage_kg" example:"583.33"`
	Bags           float64 `json:"bags" example:"29.17"`
	SuppliedPKg    float64 `json:"supplied_p_kg" example:"99.17"`
	SuppliedKKg    float64 `json:"supplied_k_kg" example:"99.17"`
	ShortagePKg    float64 `json:"shortage_p_kg" example:"520.83"`
	ShortageKKg    float64 `json:"shortage_k_kg" example:"0"`
}
