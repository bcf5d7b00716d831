// Package agronomy implements the fertilizer decision rules: nutrient deficits
// against crop targets, soil-trait adjustments and the ordered recommendation list.
package agronomy

import (
	"strings"

	"github.com/sells-group/agronomy-cli/internal/catalog"
	"github.com/sells-group/agronomy-cli/internal/model"
)

// UnsupportedCropError is returned when a crop is not in the requirement catalog.
type UnsupportedCropError struct {
	Crop string
}

func (e *UnsupportedCropError) Error() string {
	return "agronomy: crop type not supported: " + e.Crop
}

// DeficitReport is the output of the deficit calculation for one crop and
// set of readings.
type DeficitReport struct {
	Crop        model.Crop
	CropName    string
	Requirement model.CropRequirement
	Traits      model.SoilTraits
	Readings    model.Readings
	Deficits    []model.Deficit

	// pH window after soil-type bias.
	AdjustedPHMin float64
	AdjustedPHMax float64
}

// Deficit returns the shortfall for nutrient n, or 0 if it was not computed.
func (r *DeficitReport) Deficit(n model.Nutrient) float64 {
	for _, d := range r.Deficits {
		if d.Nutrient == n {
			return d.Amount
		}
	}
	return 0
}

// CalculateDeficits computes the N/P/K shortfalls and the soil-adjusted pH
// window for crop. Unknown crops yield *UnsupportedCropError.
func CalculateDeficits(crop string, r model.Readings) (*DeficitReport, error) {
	req, ok := catalog.Requirement(crop)
	if !ok {
		return nil, &UnsupportedCropError{Crop: crop}
	}

	traits := catalog.Traits(r.SoilType)

	return &DeficitReport{
		Crop:        req.Crop,
		CropName:    strings.TrimSpace(crop),
		Requirement: req,
		Traits:      traits,
		Readings:    r,
		Deficits: []model.Deficit{
			{Nutrient: model.NutrientN, Amount: shortfall(req.Nitrogen, r.Nitrogen)},
			{Nutrient: model.NutrientP, Amount: shortfall(req.Phosphorus, r.Phosphorus)},
			{Nutrient: model.NutrientK, Amount: shortfall(req.Potassium, r.Potassium)},
		},
		AdjustedPHMin: req.PHMin + traits.PHBias,
		AdjustedPHMax: req.PHMax + traits.PHBias,
	}, nil
}

// shortfall is max(0, target-observed). NaN observations count as no deficit.
func shortfall(target, observed float64) float64 {
	d := target - observed
	if !(d > 0) {
		return 0
	}
	return d
}
