package service

import (
	"math"
	"sort"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
)

const (
	// DefaultTopN is the number of products suggested per phase.
	DefaultTopN = 3

	// ReferenceDoseKg is the nutrient mass per 1000 m² that maps to 100 on the
	// scoring scale. A need of x kg per 1000 m² scores as x percent, which puts
	// targets on the same scale as product grades whatever the farm size.
	ReferenceDoseKg = 100.0

	usageDecimals = 2
)

// Target is the nutrient need a product must meet.
type Target struct {
	// Need is the absolute nutrient mass in kg.
	Need model.NPK
	// AreaM2 is the area Need covers. Zero means Need is already per 1000 m².
	AreaM2 float64
}

// Profile returns the target in grade-comparable percentage units:
// need / (area / 1000 m²) / ReferenceDoseKg × 100.
func (t Target) Profile() model.NPK {
	perRef := t.Need
	if validArea(t.AreaM2) {
		perRef = t.Need.Scale(ReferenceAreaM2 / t.AreaM2)
	}
	return perRef.Scale(100 / ReferenceDoseKg)
}

// Recommender ranks catalog products against a nutrient target.
type Recommender interface {
	Recommend(target Target, phase model.Phase, catalog []model.FertilizerProduct, topN int) []model.UsageRecommendation
}

// RecommenderOption configures a FertilizerRecommender.
type RecommenderOption func(*FertilizerRecommender)

// FertilizerRecommender implements Recommender with an L1 grade distance and
// the nitrogen-normalized allocation rule.
type FertilizerRecommender struct {
	defaultTopN int
}

// NewFertilizerRecommender creates a recommender.
func NewFertilizerRecommender(opts ...RecommenderOption) *FertilizerRecommender {
	r := &FertilizerRecommender{defaultTopN: DefaultTopN}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithDefaultTopN sets the count used when Recommend receives topN <= 0.
func WithDefaultTopN(n int) RecommenderOption {
	return func(r *FertilizerRecommender) {
		if n > 0 {
			r.defaultTopN = n
		}
	}
}

type scoredProduct struct {
	product model.FertilizerProduct
	score   float64
}

// Recommend filters catalog to phase, drops products without nitrogen, ranks
// the rest by distance to the target profile and sizes the best topN.
// An empty result is a valid outcome.
func (r *FertilizerRecommender) Recommend(target Target, phase model.Phase, catalog []model.FertilizerProduct, topN int) []model.UsageRecommendation {
	if topN <= 0 {
		topN = r.defaultTopN
	}

	profile := target.Profile()
	candidates := make([]scoredProduct, 0, len(catalog))
	for _, p := range catalog {
		if !p.SupportsPhase(phase) || p.Grade.N <= 0 || p.PackageKg <= 0 {
			continue
		}
		candidates = append(candidates, scoredProduct{product: p, score: Score(p.Grade, profile)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	out := make([]model.UsageRecommendation, 0, len(candidates))
	for _, c := range candidates {
		u := Usage(c.product, target.Need)
		u.Score = model.Round(c.score, usageDecimals)
		out = append(out, u)
	}
	return out
}

// Score is the unweighted L1 distance between a grade and a profile in
// percentage units. Lower is closer.
func Score(g model.Grade, profile model.NPK) float64 {
	return math.Abs(g.N-profile.N) + math.Abs(g.P2O5-profile.P) + math.Abs(g.K2O-profile.K)
}

// Usage sizes product so its nitrogen exactly covers need.N and reports the
// phosphate and potash left uncovered. product.Grade.N must be positive.
func Usage(product model.FertilizerProduct, need model.NPK) model.UsageRecommendation {
	needN := math.Max(0, need.N)
	needP := math.Max(0, need.P)
	needK := math.Max(0, need.K)

	usage := needN / (product.Grade.N / 100)
	suppliedP := usage * product.Grade.P2O5 / 100
	suppliedK := usage * product.Grade.K2O / 100

	return model.UsageRecommendation{
		FertilizerID:   product.ID,
		FertilizerName: product.Name,
		Grade:          product.Grade,
		PackageKg:      product.PackageKg,
		NeedNKg:        model.Round(needN, usageDecimals),
		NeedPKg:        model.Round(needP, usageDecimals),
		NeedKKg:        model.Round(needK, usageDecimals),
		UsageKg:        model.Round(usage, usageDecimals),
		Bags:           model.Round(usage/product.PackageKg, usageDecimals),
		SuppliedPKg:    model.Round(suppliedP, usageDecimals),
		SuppliedKKg:    model.Round(suppliedK, usageDecimals),
		ShortagePKg:    model.Round(math.Max(0, needP-suppliedP), usageDecimals),
		ShortageKKg:    model.Round(math.Max(0, needK-suppliedK), usageDecimals),
	}
}
