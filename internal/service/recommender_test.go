package service

import (
	"testing"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, n, p, k float64, phases ...model.Phase) model.FertilizerProduct {
	if len(phases) == 0 {
		phases = []model.Phase{model.PhaseBase}
	}
	return model.FertilizerProduct{
		ID:        id,
		Name:      id,
		Grade:     model.Grade{N: n, P2O5: p, K2O: k},
		Phases:    phases,
		PackageKg: 20,
	}
}

func TestUsage(t *testing.T) {
	tests := []struct {
		name     string
		product  model.FertilizerProduct
		need     model.NPK
		expected model.UsageRecommendation
	}{
		{
			name:    "nitrogen-normalized sizing with phosphate shortage",
			product: product("p1", 20, 10, 10),
			need:    model.NPK{N: 100, P: 620, K: 30},
			expected: model.UsageRecommendation{
				NeedNKg: 100, NeedPKg: 620, NeedKKg: 30,
				UsageKg: 500, Bags: 25,
				SuppliedPKg: 50, SuppliedKKg: 50,
				ShortagePKg: 570, ShortageKKg: 0,
			},
		},
		{
			name:    "zero need gives zero usage",
			product: product("p1", 46, 0, 0),
			need:    model.NPK{},
			expected: model.UsageRecommendation{
				UsageKg: 0, Bags: 0,
			},
		},
		{
			name:    "fractional bags round to two decimals",
			product: product("p1", 21, 17, 17),
			need:    model.NPK{N: 122.5, P: 620, K: 75},
			expected: model.UsageRecommendation{
				NeedNKg: 122.5, NeedPKg: 620, NeedKKg: 75,
				UsageKg: 583.33, Bags: 29.17,
				SuppliedPKg: 99.17, SuppliedKKg: 99.17,
				ShortagePKg: 520.83, ShortageKKg: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Usage(tt.product, tt.need)

			assert.Equal(t, tt.expected.NeedNKg, got.NeedNKg)
			assert.Equal(t, tt.expected.NeedPKg, got.NeedPKg)
			assert.Equal(t, tt.expected.NeedKKg, got.NeedKKg)
			assert.Equal(t, tt.expected.UsageKg, got.UsageKg)
			assert.Equal(t, tt.expected.Bags, got.Bags)
			assert.Equal(t, tt.expected.SuppliedPKg, got.SuppliedPKg)
			assert.Equal(t, tt.expected.SuppliedKKg, got.SuppliedKKg)
			assert.Equal(t, tt.expected.ShortagePKg, got.ShortagePKg)
			assert.Equal(t, tt.expected.ShortageKKg, got.ShortageKKg)
			assert.Equal(t, tt.product.ID, got.FertilizerID)
			assert.Equal(t, tt.product.PackageKg, got.PackageKg)
		})
	}
}

func TestTarget_Profile(t *testing.T) {
	need := model.NPK{N: 122.5, P: 620, K: 75}

	assert.Equal(t, model.NPK{N: 4.9, P: 24.8, K: 3}, Target{Need: need, AreaM2: 25000}.Profile().Round(6))
	assert.Equal(t, model.NPK{N: 4.9, P: 24.8, K: 3}, Target{Need: model.NPK{N: 4.9, P: 24.8, K: 3}}.Profile().Round(6))
}

func TestScore(t *testing.T) {
	profile := model.NPK{N: 4.9, P: 24.8, K: 3}

	assert.InDelta(t, 37.9, Score(model.Grade{N: 21, P2O5: 17, K2O: 17}, profile), 1e-9)
	assert.InDelta(t, 0, Score(model.Grade{N: 4.9, P2O5: 24.8, K2O: 3}, profile), 1e-9)
}

func TestFertilizerRecommender_Recommend(t *testing.T) {
	catalog := []model.FertilizerProduct{
		product("complex-21", 21, 17, 17),
		product("phosphate", 0, 20, 0),
		product("complex-11", 11, 21, 11),
		product("urea", 46, 0, 0, model.PhaseTopdress),
		product("potash", 0, 0, 60, model.PhaseBase, model.PhaseTopdress),
		product("nk", 18, 0, 16, model.PhaseTopdress),
		product("both", 12, 12, 12, model.PhaseBase, model.PhaseTopdress),
	}
	target := Target{Need: model.NPK{N: 122.5, P: 620, K: 75}, AreaM2: 25000}
	r := NewFertilizerRecommender()

	t.Run("ranks base products by distance", func(t *testing.T) {
		got := r.Recommend(target, model.PhaseBase, catalog, 3)

		require.Len(t, got, 3)
		assert.Equal(t, []string{"complex-11", "both", "complex-21"}, ids(got))
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, got[i-1].Score, got[i].Score)
		}
	})

	t.Run("never selects products without nitrogen", func(t *testing.T) {
		for _, phase := range []model.Phase{model.PhaseBase, model.PhaseTopdress} {
			for _, u := range r.Recommend(target, phase, catalog, 10) {
				assert.Greater(t, u.Grade.N, 0.0)
			}
		}
	})

	t.Run("top n is capped by the filtered catalog", func(t *testing.T) {
		assert.Len(t, r.Recommend(target, model.PhaseTopdress, catalog, 10), 3)
		assert.Len(t, r.Recommend(target, model.PhaseTopdress, catalog, 1), 1)
	})

	t.Run("non-positive top n uses the default", func(t *testing.T) {
		assert.Len(t, NewFertilizerRecommender(WithDefaultTopN(2)).Recommend(target, model.PhaseBase, catalog, 0), 2)
	})

	t.Run("ties keep catalog order", func(t *testing.T) {
		tied := []model.FertilizerProduct{
			product("first", 10, 10, 10),
			product("second", 10, 10, 10),
			product("third", 10, 10, 10),
		}
		got := r.Recommend(target, model.PhaseBase, tied, 3)
		assert.Equal(t, []string{"first", "second", "third"}, ids(got))
	})

	t.Run("empty filtered catalog is an empty result", func(t *testing.T) {
		got := r.Recommend(target, model.PhaseBase, []model.FertilizerProduct{product("phosphate", 0, 20, 0)}, 3)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("all derived quantities are non-negative", func(t *testing.T) {
		for _, u := range r.Recommend(target, model.PhaseBase, catalog, 10) {
			assert.GreaterOrEqual(t, u.UsageKg, 0.0)
			assert.GreaterOrEqual(t, u.Bags, 0.0)
			assert.GreaterOrEqual(t, u.ShortagePKg, 0.0)
			assert.GreaterOrEqual(t, u.ShortageKKg, 0.0)
		}
	})
}

func ids(us []model.UsageRecommendation) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.FertilizerID
	}
	return out
}
