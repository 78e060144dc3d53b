package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
)

// TrackingState is one immutable generation of the tracked-crop set and the
// last recommendation computed for each tracked crop code.
type TrackingState struct {
	Crops       []model.TrackedCrop
	Results     map[string]model.RecommendationResult
	LastUpdated time.Time
}

func (s TrackingState) clone() TrackingState {
	out := TrackingState{
		Crops:       append([]model.TrackedCrop(nil), s.Crops...),
		Results:     make(map[string]model.RecommendationResult, len(s.Results)),
		LastUpdated: s.LastUpdated,
	}
	for k, v := range s.Results {
		out.Results[k] = v
	}
	return out
}

// TrackedCropStore persists the tracking state. Update applies fn to a copy
// of the current state and publishes the result atomically; an error from fn
// leaves the state unchanged.
type TrackedCropStore interface {
	Load() TrackingState
	Update(fn func(TrackingState) (TrackingState, error)) error
}

// MemoryTrackedCropStore keeps the state in process memory. Reads are lock
// free; writers are serialized.
type MemoryTrackedCropStore struct {
	state atomic.Pointer[TrackingState]
	mu    sync.Mutex
}

// NewMemoryTrackedCropStore creates an empty store.
func NewMemoryTrackedCropStore() *MemoryTrackedCropStore {
	s := &MemoryTrackedCropStore{}
	s.state.Store(&TrackingState{Results: map[string]model.RecommendationResult{}})
	return s
}

// Load returns a copy of the current state.
func (s *MemoryTrackedCropStore) Load() TrackingState {
	return s.state.Load().clone()
}

// Update implements TrackedCropStore.
func (s *MemoryTrackedCropStore) Update(fn func(TrackingState) (TrackingState, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state.Load().clone())
	if err != nil {
		return err
	}
	if next.Results == nil {
		next.Results = map[string]model.RecommendationResult{}
	}
	s.state.Store(&next)
	return nil
}

// CropTracker manages the crops the farm follows and their latest
// recommendations.
type CropTracker interface {
	Update(names []string) ([]model.TrackedCrop, error)
	List() ([]model.TrackedCrop, model.TrackingSummary)
	Remove(name string) error
	Recommendations(ctx context.Context, soil model.SoilSample, farmAreaM2 float64) (*model.BatchResult, error)
	Recommendation(name string) (*model.RecommendationResult, error)
	Summary() model.TrackingSummary
}

// TrackerService implements CropTracker on top of a TrackedCropStore.
type TrackerService struct {
	store     TrackedCropStore
	reference ReferenceSource
	builder   RecommendationService
	now       func() time.Time
}

// NewTrackerService creates a TrackerService.
func NewTrackerService(store TrackedCropStore, ref ReferenceSource, builder RecommendationService) *TrackerService {
	return &TrackerService{store: store, reference: ref, builder: builder, now: time.Now}
}

// Update replaces the tracked set with names. Names are trimmed and
// duplicates (including aliases of the same crop) are dropped; the set must
// end up with 1 to MaxCropsPerRequest supported crops.
func (t *TrackerService) Update(names []string) ([]model.TrackedCrop, error) {
	crops := t.reference.Snapshot().Crops()
	now := t.now().UTC()

	seen := make(map[string]bool, len(names))
	tracked := make([]model.TrackedCrop, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, invalidInputError("crop name must not be empty")
		}
		crop, ok := crops.Lookup(name)
		if !ok {
			return nil, unsupportedCropError(name)
		}
		if seen[crop.Code] {
			continue
		}
		seen[crop.Code] = true
		tracked = append(tracked, model.TrackedCrop{Name: name, Code: crop.Code, AddedAt: now})
	}
	if len(tracked) == 0 {
		return nil, invalidInputError("at least one crop is required")
	}
	if len(tracked) > MaxCropsPerRequest {
		return nil, tooManyCropsError(len(tracked), MaxCropsPerRequest)
	}

	err := t.store.Update(func(s TrackingState) (TrackingState, error) {
		previous := make(map[string]model.TrackedCrop, len(s.Crops))
		for _, c := range s.Crops {
			previous[c.Code] = c
		}
		results := make(map[string]model.RecommendationResult, len(tracked))
		for i, c := range tracked {
			if old, ok := previous[c.Code]; ok {
				tracked[i].AddedAt = old.AddedAt
			}
			if r, ok := s.Results[c.Code]; ok {
				results[c.Code] = r
			}
		}
		return TrackingState{Crops: tracked, Results: results, LastUpdated: now}, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]model.TrackedCrop(nil), tracked...), nil
}

// List returns the tracked crops with a summary.
func (t *TrackerService) List() ([]model.TrackedCrop, model.TrackingSummary) {
	s := t.store.Load()
	return s.Crops, summarize(s)
}

// Summary reports the size of the tracked set and how many crops have data.
func (t *TrackerService) Summary() model.TrackingSummary {
	return summarize(t.store.Load())
}

// Remove stops tracking name.
func (t *TrackerService) Remove(name string) error {
	name = strings.TrimSpace(name)
	return t.store.Update(func(s TrackingState) (TrackingState, error) {
		i := t.find(s.Crops, name)
		if i < 0 {
			return s, cropNotTrackedError(name)
		}
		delete(s.Results, s.Crops[i].Code)
		s.Crops = append(s.Crops[:i], s.Crops[i+1:]...)
		s.LastUpdated = t.now().UTC()
		return s, nil
	})
}

// Recommendations builds recommendations for every tracked crop and stores
// the successful results.
func (t *TrackerService) Recommendations(ctx context.Context, soil model.SoilSample, farmAreaM2 float64) (*model.BatchResult, error) {
	current := t.store.Load()
	if len(current.Crops) == 0 {
		return nil, invalidInputError("no crops are tracked")
	}
	names := make([]string, len(current.Crops))
	for i, c := range current.Crops {
		names[i] = c.Name
	}

	batch, err := t.builder.BuildMulti(ctx, names, soil, farmAreaM2)
	if err != nil {
		return nil, err
	}

	err = t.store.Update(func(s TrackingState) (TrackingState, error) {
		for _, r := range batch.Crops {
			// the set may have changed while building
			if indexOfTrackedCode(s.Crops, r.Crop.Code) >= 0 {
				s.Results[r.Crop.Code] = r
			}
		}
		s.LastUpdated = t.now().UTC()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Recommendation returns the stored result for a tracked crop.
func (t *TrackerService) Recommendation(name string) (*model.RecommendationResult, error) {
	name = strings.TrimSpace(name)
	s := t.store.Load()
	i := t.find(s.Crops, name)
	if i < 0 {
		return nil, cropNotTrackedError(name)
	}
	r, ok := s.Results[s.Crops[i].Code]
	if !ok {
		return nil, &Error{Kind: ErrCropNotTracked, Crop: name, Message: "no recommendation stored yet for " + name}
	}
	return &r, nil
}

func summarize(s TrackingState) model.TrackingSummary {
	summary := model.TrackingSummary{TotalCrops: len(s.Crops)}
	for _, c := range s.Crops {
		if _, ok := s.Results[c.Code]; ok {
			summary.CropsWithData++
		}
	}
	if !s.LastUpdated.IsZero() {
		at := s.LastUpdated
		summary.LastUpdated = &at
	}
	return summary
}

// find matches by tracked name first, then by resolved crop code so an alias
// and its canonical name refer to the same entry.
func (t *TrackerService) find(crops []model.TrackedCrop, name string) int {
	if i := indexOfTracked(crops, name); i >= 0 {
		return i
	}
	if code, ok := t.reference.Snapshot().Crops().CropCode(name); ok {
		return indexOfTrackedCode(crops, code)
	}
	return -1
}

func indexOfTracked(crops []model.TrackedCrop, name string) int {
	for i, c := range crops {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func indexOfTrackedCode(crops []model.TrackedCrop, code string) int {
	for i, c := range crops {
		if c.Code == code {
			return i
		}
	}
	return -1
}
