package service

import (
	"math"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
)

// ReferenceAreaM2 is the area every standard prescription is expressed for (10a).
const ReferenceAreaM2 = 1000.0

// massDecimals is the rounding applied to every farm-scale mass.
const massDecimals = 1

func validArea(areaM2 float64) bool {
	return areaM2 > 0 && !math.IsInf(areaM2, 0) && !math.IsNaN(areaM2)
}

// ScaleToFarm converts the per-1000 m² base and topdress dosages into absolute
// kilograms for farmAreaM2. Both phases use the same factor.
func ScaleToFarm(p model.NutrientPrescription, farmAreaM2 float64) (model.FarmNutrientNeed, error) {
	if !validArea(farmAreaM2) {
		return model.FarmNutrientNeed{}, invalidInputError("farm area must be positive, got %g m²", farmAreaM2)
	}
	if p.Base.HasNegative() || p.Topdress.HasNegative() {
		return model.FarmNutrientNeed{}, invalidInputError("prescription for %s has negative nutrient values", p.CropCode)
	}

	factor := farmAreaM2 / ReferenceAreaM2
	return model.FarmNutrientNeed{
		Base:     p.Base.Scale(factor).Round(massDecimals),
		Topdress: p.Topdress.Scale(factor).Round(massDecimals),
	}, nil
}

// ScaleCompost converts the per-1000 m² compost rates into absolute kilograms
// for farmAreaM2.
func ScaleCompost(p model.NutrientPrescription, farmAreaM2 float64) (model.CompostNeed, error) {
	if !validArea(farmAreaM2) {
		return model.CompostNeed{}, invalidInputError("farm area must be positive, got %g m²", farmAreaM2)
	}
	if p.Compost.HasNegative() {
		return model.CompostNeed{}, invalidInputError("prescription for %s has negative compost rates", p.CropCode)
	}

	factor := farmAreaM2 / ReferenceAreaM2
	return model.CompostNeed{
		CattleKg:  model.Round(p.Compost.Cattle*factor, massDecimals),
		PigKg:     model.Round(p.Compost.Pig*factor, massDecimals),
		ChickenKg: model.Round(p.Compost.Chicken*factor, massDecimals),
		MixedKg:   model.Round(p.Compost.Mixed*factor, massDecimals),
	}, nil
}
