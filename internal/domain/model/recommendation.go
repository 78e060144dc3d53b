package model

import "time"

// CropIdentity is a resolved crop.
type CropIdentity struct {
	Name     string `json:"name" example:"맥주보리"`
	Code     string `json:"code" example:"01001"`
	Category string `json:"category" example:"맥류"`
}

// PhaseRecommendations holds ranked products for each application phase.
type PhaseRecommendations struct {
	Base     []UsageRecommendation `json:"base"`
	Topdress []UsageRecommendation `json:"topdress"`
}

// RecommendationResult is the complete recommendation for one crop.
//
// @Description Fertilizer and compost recommendation for one crop
type RecommendationResult struct {
	Crop        CropIdentity         `json:"crop"`
	Farm        FarmSizing           `json:"farm"`
	Soil        SoilSample           `json:"soil"`
	Standard    NutrientPrescription `json:"standard_per_1000m2"`
	FarmNeeds   FarmNutrientNeed     `json:"total_farm_needs"`
	Fertilizers PhaseRecommendations `json:"fertilizer_recommendations"`
	Compost     CompostNeed          `json:"compost_recommendations"`
	Source      PrescriptionSource   `json:"source"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Degraded reports whether fallback data produced this result.
func (r RecommendationResult) Degraded() bool {
	return r.Source.Degraded
}

// CropError records a per-crop failure inside a batch.
type CropError struct {
	Crop    string `json:"crop" example:"알수없는작물"`
	Kind    string `json:"kind" example:"unsupported_crop"`
	Message string `json:"message" example:"unsupported crop: 알수없는작물"`
}

// BatchSummary counts successes and failures in a batch.
type BatchSummary struct {
	Successful int         `json:"successful" example:"1"`
	Failed     int         `json:"failed" example:"1"`
	Errors     []CropError `json:"errors"`
}

// BatchResult is the aggregate of a multi-crop request.
//
// @Description Multi-crop recommendation result
type BatchResult struct {
	TotalCrops int                    `json:"total_crops" example:"2"`
	Farm       FarmSizing             `json:"farm"`
	Soil       SoilSample             `json:"soil"`
	Crops      []RecommendationResult `json:"crops"`
	Summary    BatchSummary           `json:"summary"`
	Degraded   bool                   `json:"degraded"`
}

// CompactRecommendation is the trimmed shape used by lightweight clients.
//
// @Description Compact recommendation
type CompactRecommendation struct {
	Crop struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"crop"`
	Compost    CompostNeed `json:"compost"`
	Fertilizer struct {
		Base       []UsageRecommendation `json:"base"`
		Additional []UsageRecommendation `json:"additional"`
	} `json:"fertilizer"`
	Degraded bool `json:"degraded"`
}

// Compact converts a full result into the compact shape.
func (r RecommendationResult) Compact() CompactRecommendation {
	var c CompactRecommendation
	c.Crop.Code = r.Crop.Code
	c.Crop.Name = r.Crop.Name
	c.Compost = r.Compost
	c.Fertilizer.Base = r.Fertilizers.Base
	c.Fertilizer.Additional = r.Fertilizers.Topdress
	c.Degraded = r.Source.Degraded
	return c
}

// TrackedCrop is a crop the farm is following for recommendations.
type TrackedCrop struct {
	Name    string    `json:"name" example:"맥주보리"`
	Code    string    `json:"code" example:"01001"`
	AddedAt time.Time `json:"added_at"`
}

// TrackingSummary describes the tracked-crop set.
type TrackingSummary struct {
	TotalCrops    int        `json:"total_crops" example:"3"`
	CropsWithData int        `json:"crops_with_data" example:"2"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
}
