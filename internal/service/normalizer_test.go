package service

import (
	"errors"
	"testing"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barleyPrescription() model.NutrientPrescription {
	return model.NutrientPrescription{
		CropCode: "01001",
		Base:     model.NPK{N: 4.9, P: 24.8, K: 3.0},
		Topdress: model.NPK{N: 3.2},
		Compost:  model.CompostRates{Cattle: 1500, Pig: 330, Chicken: 255, Mixed: 541},
	}
}

func TestScaleToFarm(t *testing.T) {
	tests := []struct {
		name     string
		area     float64
		expected model.FarmNutrientNeed
	}{
		{
			name: "reference area is identity",
			area: 1000,
			expected: model.FarmNutrientNeed{
				Base:     model.NPK{N: 4.9, P: 24.8, K: 3},
				Topdress: model.NPK{N: 3.2},
			},
		},
		{
			name: "25000 m² scales by 25",
			area: 25000,
			expected: model.FarmNutrientNeed{
				Base:     model.NPK{N: 122.5, P: 620, K: 75},
				Topdress: model.NPK{N: 80},
			},
		},
		{
			name: "fractional area rounds to one decimal",
			area: 333,
			expected: model.FarmNutrientNeed{
				Base:     model.NPK{N: 1.6, P: 8.3, K: 1},
				Topdress: model.NPK{N: 1.1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScaleToFarm(barleyPrescription(), tt.area)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScaleToFarm_Linearity(t *testing.T) {
	p := barleyPrescription()

	for _, area := range []float64{1000, 2500, 7000, 25000} {
		single, err := ScaleToFarm(p, area)
		require.NoError(t, err)
		double, err := ScaleToFarm(p, 2*area)
		require.NoError(t, err)

		assert.InDelta(t, 2*single.Base.N, double.Base.N, 0.1)
		assert.InDelta(t, 2*single.Base.P, double.Base.P, 0.1)
		assert.InDelta(t, 2*single.Base.K, double.Base.K, 0.1)
		assert.InDelta(t, 2*single.Topdress.N, double.Topdress.N, 0.1)
	}
}

func TestScaleToFarm_RoundsEachOutput(t *testing.T) {
	p := model.NutrientPrescription{Base: model.NPK{N: 0.25}}

	single, err := ScaleToFarm(p, 1000)
	require.NoError(t, err)
	double, err := ScaleToFarm(p, 2000)
	require.NoError(t, err)

	// proportional before rounding, so doubling drifts by at most one rounding step
	assert.Equal(t, 0.3, single.Base.N)
	assert.Equal(t, 0.5, double.Base.N)
	assert.Equal(t, 0.5, p.Base.Scale(2).N)
}

func TestScaleToFarm_Errors(t *testing.T) {
	tests := []struct {
		name   string
		p      model.NutrientPrescription
		area   float64
		reason string
	}{
		{"zero area", barleyPrescription(), 0, "farm area"},
		{"negative area", barleyPrescription(), -10, "farm area"},
		{"negative nutrient", model.NutrientPrescription{CropCode: "x", Base: model.NPK{N: -1}}, 1000, "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScaleToFarm(tt.p, tt.area)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestScaleCompost(t *testing.T) {
	got, err := ScaleCompost(barleyPrescription(), 25000)
	require.NoError(t, err)
	assert.Equal(t, model.CompostNeed{CattleKg: 37500, PigKg: 8250, ChickenKg: 6375, MixedKg: 13525}, got)

	got, err = ScaleCompost(barleyPrescription(), 150)
	require.NoError(t, err)
	assert.Equal(t, 225.0, got.CattleKg)
	assert.Equal(t, 38.3, got.ChickenKg)

	_, err = ScaleCompost(barleyPrescription(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ScaleCompost(model.NutrientPrescription{Compost: model.CompostRates{Mixed: -5}}, 1000)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
