package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/metrics"
	"github.com/guttosm/fertilizer-service/internal/reference"
	"github.com/rs/zerolog/log"
)

// MaxCropsPerRequest caps a batch recommendation.
const MaxCropsPerRequest = 3

// PrescriptionProvider returns the per-1000 m² prescription for a crop code
// and soil sample. Implementations substitute fallback data on upstream
// failure and say so in the returned source; an error means no prescription
// of any kind could be produced.
type PrescriptionProvider interface {
	FetchPrescription(ctx context.Context, cropCode string, soil model.SoilSample) (model.SourcedPrescription, error)
}

// ReferenceSource supplies the current reference data snapshot.
type ReferenceSource interface {
	Snapshot() *reference.Snapshot
}

// RecommendationService builds recommendations for one or more crops.
type RecommendationService interface {
	BuildRecommendation(ctx context.Context, cropName string, soil model.SoilSample, farmAreaM2 float64) (*model.RecommendationResult, error)
	BuildMulti(ctx context.Context, cropNames []string, soil model.SoilSample, farmAreaM2 float64) (*model.BatchResult, error)
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithRecommender replaces the product recommender.
func WithRecommender(r Recommender) AggregatorOption {
	return func(a *Aggregator) {
		if r != nil {
			a.recommender = r
		}
	}
}

// WithTopN sets the number of products per phase.
func WithTopN(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.topN = n
		}
	}
}

// WithClock replaces time.Now for GeneratedAt.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// Aggregator runs the normalize and recommend steps for each crop and
// assembles the response payloads. It holds no per-request state.
type Aggregator struct {
	provider    PrescriptionProvider
	reference   ReferenceSource
	recommender Recommender
	topN        int
	now         func() time.Time
}

// NewAggregator creates an Aggregator.
func NewAggregator(provider PrescriptionProvider, ref ReferenceSource, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		provider:    provider,
		reference:   ref,
		recommender: NewFertilizerRecommender(),
		topN:        DefaultTopN,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildRecommendation produces the complete recommendation for one crop.
func (a *Aggregator) BuildRecommendation(ctx context.Context, cropName string, soil model.SoilSample, farmAreaM2 float64) (*model.RecommendationResult, error) {
	start := time.Now()
	if err := validateRequest(soil, farmAreaM2); err != nil {
		metrics.RecordRecommendation("single", "error", time.Since(start))
		return nil, err
	}

	result, err := a.build(ctx, a.reference.Snapshot(), cropName, soil, farmAreaM2)
	metrics.RecordRecommendation("single", outcome(result, err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BuildMulti builds recommendations for up to MaxCropsPerRequest crops. The
// request is rejected before any per-crop work when it is empty, too long or
// has an invalid area or soil sample. After that each crop succeeds or fails
// on its own and failures are reported in the summary.
func (a *Aggregator) BuildMulti(ctx context.Context, cropNames []string, soil model.SoilSample, farmAreaM2 float64) (*model.BatchResult, error) {
	if len(cropNames) == 0 {
		return nil, invalidInputError("at least one crop is required")
	}
	if len(cropNames) > MaxCropsPerRequest {
		return nil, tooManyCropsError(len(cropNames), MaxCropsPerRequest)
	}
	if err := validateRequest(soil, farmAreaM2); err != nil {
		return nil, err
	}

	snap := a.reference.Snapshot()
	results := make([]*model.RecommendationResult, len(cropNames))
	errs := make([]error, len(cropNames))

	var wg sync.WaitGroup
	for i, name := range cropNames {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			start := time.Now()
			results[i], errs[i] = a.build(ctx, snap, name, soil, farmAreaM2)
			metrics.RecordRecommendation("multi", outcome(results[i], errs[i]), time.Since(start))
		}(i, name)
	}
	wg.Wait()

	batch := &model.BatchResult{
		TotalCrops: len(cropNames),
		Farm:       model.NewFarmSizing(farmAreaM2),
		Soil:       soil,
		Crops:      make([]model.RecommendationResult, 0, len(cropNames)),
		Summary:    model.BatchSummary{Errors: []model.CropError{}},
	}
	for i, name := range cropNames {
		if errs[i] != nil {
			batch.Summary.Failed++
			batch.Summary.Errors = append(batch.Summary.Errors, cropErrorFor(name, errs[i]))
			log.Warn().Err(errs[i]).Str("crop", name).Msg("crop recommendation failed")
			continue
		}
		batch.Summary.Successful++
		batch.Crops = append(batch.Crops, *results[i])
		if results[i].Degraded() {
			batch.Degraded = true
		}
	}
	return batch, nil
}

func (a *Aggregator) build(ctx context.Context, snap *reference.Snapshot, cropName string, soil model.SoilSample, farmAreaM2 float64) (*model.RecommendationResult, error) {
	cropName = strings.TrimSpace(cropName)
	crop, ok := snap.Crops().Lookup(cropName)
	if !ok {
		return nil, unsupportedCropError(cropName)
	}

	sourced, err := a.provider.FetchPrescription(ctx, crop.Code, soil)
	if err != nil {
		return nil, upstreamUnavailableError(cropName, err)
	}
	standard := sourced.Prescription
	standard.CropCode = crop.Code
	standard.CropName = crop.Name

	needs, err := ScaleToFarm(standard, farmAreaM2)
	if err != nil {
		return nil, withCrop(err, cropName)
	}
	compost, err := ScaleCompost(standard, farmAreaM2)
	if err != nil {
		return nil, withCrop(err, cropName)
	}

	catalog := snap.Catalog()
	base := a.recommender.Recommend(Target{Need: needs.Base, AreaM2: farmAreaM2}, model.PhaseBase, catalog, a.topN)
	top := a.recommender.Recommend(Target{Need: needs.Topdress, AreaM2: farmAreaM2}, model.PhaseTopdress, catalog, a.topN)

	if sourced.Source.Degraded {
		log.Warn().
			Str("crop", crop.Name).
			Str("crop_code", crop.Code).
			Str("reason", sourced.Source.Reason).
			Msg("recommendation built from fallback prescription")
	}

	return &model.RecommendationResult{
		Crop:        model.CropIdentity{Name: crop.Name, Code: crop.Code, Category: crop.Category},
		Farm:        model.NewFarmSizing(farmAreaM2),
		Soil:        soil,
		Standard:    standard,
		FarmNeeds:   needs,
		Fertilizers: model.PhaseRecommendations{Base: base, Topdress: top},
		Compost:     compost,
		Source:      sourced.Source,
		GeneratedAt: a.now().UTC(),
	}, nil
}

func validateRequest(soil model.SoilSample, farmAreaM2 float64) error {
	if !validArea(farmAreaM2) {
		return invalidInputError("farm area must be positive, got %g m²", farmAreaM2)
	}
	if err := soil.Validate(); err != nil {
		return &Error{Kind: ErrInvalidInput, Message: "invalid soil sample", Err: err}
	}
	return nil
}

func withCrop(err error, crop string) error {
	var e *Error
	if errors.As(err, &e) && e.Crop == "" {
		e.Crop = crop
	}
	return err
}

func cropErrorFor(crop string, err error) model.CropError {
	return model.CropError{Crop: crop, Kind: KindOf(err), Message: err.Error()}
}

func outcome(r *model.RecommendationResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case r.Degraded():
		return "degraded"
	default:
		return "success"
	}
}
