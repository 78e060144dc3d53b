package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) (*TrackerService, *fakeProvider) {
	t.Helper()
	store := testStore(t)
	provider := &fakeProvider{}
	tracker := NewTrackerService(NewMemoryTrackedCropStore(), store, NewAggregator(provider, store))
	return tracker, provider
}

func TestTrackerService_Update(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
		kind     error
	}{
		{name: "trims and keeps order", input: []string{" 맥주보리", "양파 "}, expected: []string{"맥주보리", "양파"}},
		{name: "drops duplicates and aliases", input: []string{"콩", "대두", "콩"}, expected: []string{"콩"}},
		{name: "empty list", input: nil, kind: ErrInvalidInput},
		{name: "blank name", input: []string{"  "}, kind: ErrInvalidInput},
		{name: "unsupported crop", input: []string{"알수없는작물"}, kind: ErrUnsupportedCrop},
		{name: "too many", input: []string{"맥주보리", "밀", "양파", "배추"}, kind: ErrTooManyCrops},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, _ := newTestTracker(t)

			got, err := tracker.Update(tt.input)

			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
				crops, _ := tracker.List()
				assert.Empty(t, crops)
				return
			}
			require.NoError(t, err)
			names := make([]string, len(got))
			for i, c := range got {
				names[i] = c.Name
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestTrackerService_UpdateKeepsAddedAt(t *testing.T) {
	tracker, _ := newTestTracker(t)
	first := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return first }

	_, err := tracker.Update([]string{"맥주보리"})
	require.NoError(t, err)

	tracker.now = func() time.Time { return first.Add(time.Hour) }
	got, err := tracker.Update([]string{"맥주보리", "양파"})
	require.NoError(t, err)

	assert.Equal(t, first, got[0].AddedAt)
	assert.Equal(t, first.Add(time.Hour), got[1].AddedAt)
	assert.Equal(t, first.Add(time.Hour), *tracker.Summary().LastUpdated)
}

func TestTrackerService_RecommendationsAndSummary(t *testing.T) {
	tracker, provider := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Recommendations(ctx, testSoil(), 25000)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = tracker.Update([]string{"맥주보리", "콩"})
	require.NoError(t, err)

	summary := tracker.Summary()
	assert.Equal(t, 2, summary.TotalCrops)
	assert.Equal(t, 0, summary.CropsWithData)

	_, err = tracker.Recommendation("맥주보리")
	assert.ErrorIs(t, err, ErrCropNotTracked)

	batch, err := tracker.Recommendations(ctx, testSoil(), 25000)
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Summary.Successful)
	assert.Equal(t, int32(2), provider.calls.Load())

	crops, summary := tracker.List()
	assert.Len(t, crops, 2)
	assert.Equal(t, 2, summary.CropsWithData)

	stored, err := tracker.Recommendation("대두")
	require.NoError(t, err)
	assert.Equal(t, "03001", stored.Crop.Code)
}

func TestTrackerService_Remove(t *testing.T) {
	tracker, _ := newTestTracker(t)

	_, err := tracker.Update([]string{"맥주보리", "콩"})
	require.NoError(t, err)
	_, err = tracker.Recommendations(context.Background(), testSoil(), 1000)
	require.NoError(t, err)

	require.NoError(t, tracker.Remove("대두"))
	crops, summary := tracker.List()
	require.Len(t, crops, 1)
	assert.Equal(t, "맥주보리", crops[0].Name)
	assert.Equal(t, 1, summary.CropsWithData)

	assert.ErrorIs(t, tracker.Remove("양파"), ErrCropNotTracked)
	assert.ErrorIs(t, tracker.Remove("알수없는작물"), ErrCropNotTracked)
}

func TestMemoryTrackedCropStore_UpdateErrorKeepsState(t *testing.T) {
	store := NewMemoryTrackedCropStore()
	require.NoError(t, store.Update(func(s TrackingState) (TrackingState, error) {
		s.LastUpdated = fixedClock()
		return s, nil
	}))

	err := store.Update(func(s TrackingState) (TrackingState, error) {
		s.LastUpdated = time.Time{}
		return s, ErrInvalidInput
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, fixedClock(), store.Load().LastUpdated)
	assert.NotNil(t, store.Load().Results)
}
