package agronomy

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/model"
)

// UnsupportedCropMessage is the message carried by the sentinel entry.
const UnsupportedCropMessage = "Crop type not supported"

// Rule thresholds and unit-conversion multipliers. These are output contracts:
// changing them changes recommendation text.
const (
	limePerPH   = 500
	sulfurPerPH = 300

	nitrogenHigh     = 50
	nitrogenModerate = 20
	ureaFactor       = 2.17
	ammoniumFactor   = 4.76

	phosphorusHigh     = 30
	phosphorusModerate = 10
	phosphateFactor    = 2.17

	potassiumHigh     = 40
	potassiumModerate = 15
	muriateFactor     = 1.67
	sulfateFactor     = 2

	lowOrganicMatter  = 2.0
	soilOrganicCutoff = 3.0

	cerealZincPH    = 7.5
	vegetableIronPH = 7.0
)

const (
	defaultHighPotash     = "Muriate of Potash (0-0-60)"
	defaultModeratePotash = "Sulfate of Potash (0-0-50)"
	defaultBalanced       = "NPK (10-10-10)"
)

// UnsupportedCrop returns the single-entry list used to signal an unknown crop.
func UnsupportedCrop() []model.Recommendation {
	return []model.Recommendation{{Type: model.CategoryError, Message: UnsupportedCropMessage}}
}

// Recommend runs the deficit calculation and assembles recommendations. An
// unknown crop yields the sentinel list from UnsupportedCrop.
func Recommend(crop string, r model.Readings) []model.Recommendation {
	report, err := CalculateDeficits(crop, r)
	if err != nil {
		var uce *UnsupportedCropError
		if errors.As(err, &uce) {
			zap.L().Debug("agronomy: unsupported crop", zap.String("crop", crop))
		}
		return UnsupportedCrop()
	}
	return Assemble(report)
}

// Assemble turns a deficit report into an ordered recommendation list:
// pH, N, P, K, organic matter, crop micronutrients, soil micronutrients,
// soil organic matter, then a balanced fallback if nothing else applied.
func Assemble(rep *DeficitReport) []model.Recommendation {
	var recs []model.Recommendation
	r := rep.Readings
	traits := rep.Traits

	recs = appendPH(recs, rep)
	recs = appendNitrogen(recs, rep.Deficit(model.NutrientN))
	recs = appendPhosphorus(recs, rep.Deficit(model.NutrientP))
	recs = appendPotassium(recs, rep.Deficit(model.NutrientK), traits.PreferredPotassium)

	if r.OrganicMatter < lowOrganicMatter {
		recs = append(recs, model.Recommendation{
			Type:     model.CategoryOrganic,
			Product:  "Compost or Farm Yard Manure",
			Quantity: "5-10 tons/hectare",
			Reason:   fmt.Sprintf("Low organic matter (%s%%). Improve soil health and nutrient retention", decimal(r.OrganicMatter)),
			Priority: model.PriorityMedium,
		})
	}

	switch rep.Crop {
	case model.CropRice, model.CropWheat:
		if r.PH > cerealZincPH {
			recs = append(recs, model.Recommendation{
				Type:     model.CategoryMicronutrient,
				Product:  "Zinc Sulfate",
				Quantity: "25 kg/hectare",
				Reason:   "High pH can cause zinc deficiency in cereals",
				Priority: model.PriorityMedium,
			})
		}
	case model.CropTomato, model.CropPotato:
		if r.PH > vegetableIronPH {
			recs = append(recs, model.Recommendation{
				Type:     model.CategoryMicronutrient,
				Product:  "Iron Chelate",
				Quantity: "10 kg/hectare",
				Reason:   "Alkaline soil can cause iron deficiency in vegetables",
				Priority: model.PriorityMedium,
			})
		}
	}

	if traits.PreferredMicronutrient != "" {
		recs = append(recs, model.Recommendation{
			Type:     model.CategoryMicronutrient,
			Product:  traits.PreferredMicronutrient,
			Quantity: "25 kg/hectare",
			Reason:   traits.Notes,
			Priority: model.PriorityLow,
		})
	}

	if traits.Organic && r.OrganicMatter < soilOrganicCutoff {
		reason := traits.Notes
		if reason == "" {
			reason = "Improve soil structure and CEC"
		}
		recs = append(recs, model.Recommendation{
			Type:     model.CategoryOrganic,
			Product:  "Compost or Vermicompost",
			Quantity: "2-5 tons/hectare",
			Reason:   reason,
			Priority: model.PriorityMedium,
		})
	}

	if len(recs) == 0 {
		recs = append(recs, model.Recommendation{
			Type:     model.CategoryBalanced,
			Product:  orDefault(traits.PreferredBalanced, defaultBalanced),
			Quantity: "200-300 kg/hectare",
			Reason:   "Soil nutrients are adequate. Apply balanced fertilizer for maintenance",
			Priority: model.PriorityLow,
		})
	}

	return recs
}

func appendPH(recs []model.Recommendation, rep *DeficitReport) []model.Recommendation {
	ph := rep.Readings.PH
	target := fmt.Sprintf("Target pH: %s-%s", decimal(rep.Requirement.PHMin), decimal(rep.Requirement.PHMax))

	switch {
	case ph < rep.AdjustedPHMin:
		return append(recs, model.Recommendation{
			Type:     model.CategoryPHAdjustment,
			Product:  "Lime (CaCO3)",
			Quantity: kgPerHectare((rep.AdjustedPHMin - ph) * limePerPH),
			Reason:   fmt.Sprintf("Soil pH (%s) is too acidic for %s. %s", decimal(ph), rep.CropName, target),
			Priority: model.PriorityHigh,
		})
	case ph > rep.AdjustedPHMax:
		return append(recs, model.Recommendation{
			Type:     model.CategoryPHAdjustment,
			Product:  "Sulfur or Aluminum Sulfate",
			Quantity: kgPerHectare((ph - rep.AdjustedPHMax) * sulfurPerPH),
			Reason:   fmt.Sprintf("Soil pH (%s) is too alkaline for %s. %s", decimal(ph), rep.CropName, target),
			Priority: model.PriorityHigh,
		})
	}
	return recs
}

func appendNitrogen(recs []model.Recommendation, def float64) []model.Recommendation {
	switch {
	case def > nitrogenHigh:
		return append(recs, model.Recommendation{
			Type:     model.CategoryPrimaryNutrient,
			Product:  "Urea (46-0-0)",
			Quantity: kgPerHectare(def * ureaFactor),
			Reason:   fmt.Sprintf("Nitrogen deficiency: %.0f kg/ha needed", def),
			Priority: model.PriorityHigh,
		})
	case def > nitrogenModerate:
		return append(recs, model.Recommendation{
			Type:     model.CategoryPrimaryNutrient,
			Product:  "Ammonium Sulfate (21-0-0)",
			Quantity: kgPerHectare(def * ammoniumFactor),
			Reason:   fmt.Sprintf("Moderate nitrogen deficiency: %.0f kg/ha needed", def),
			Priority: model.PriorityMedium,
		})
	}
	return recs
}

func appendPhosphorus(recs []model.Recommendation, def float64) []model.Recommendation {
	switch {
	case def > phosphorusHigh:
		return append(recs, model.Recommendation{
			Type:     model.CategoryPrimaryNutrient,
			Product:  "Triple Super Phosphate (0-46-0)",
			Quantity: kgPerHectare(def * phosphateFactor),
			Reason:   fmt.Sprintf("Phosphorus deficiency: %.0f kg/ha needed", def),
			Priority: model.PriorityHigh,
		})
	case def > phosphorusModerate:
		return append(recs, model.Recommendation{
			Type:     model.CategoryPrimaryNutrient,
			Product:  "DAP (18-46-0)",
			Quantity: kgPerHectare(def * phosphateFactor),
			Reason:   fmt.Sprintf("Moderate phosphorus deficiency: %.0f kg/ha needed", def),
			Priority: model.PriorityMedium,
		})
	}
	return recs
}

func appendPotassium(recs []model.Recommendation, def float64, preferred string) []model.Recommendation {
	switch {
	case def > potassiumHigh:
		return append(recs, model.Recommendation{
			Type:     model.CategoryPrimaryNutrient,
			Product:  orDefault(preferred, defaultHighPotash),
			Quantity: kgPerHectare(def * muriateFactor),
			Reason:   fmt.Sprintf("Potassium deficiency: %.0f kg/ha needed", def),
			Priority: model.PriorityHigh,
		})
	case def > potassiumModerate:
		return append(recs, model.Recommendation{
			Type:     model.CategoryPrimaryNutrient,
			Product:  orDefault(preferred, defaultModeratePotash),
			Quantity: kgPerHectare(def * sulfateFactor),
			Reason:   fmt.Sprintf("Moderate potassium deficiency: %.0f kg/ha needed", def),
			Priority: model.PriorityMedium,
		})
	}
	return recs
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
