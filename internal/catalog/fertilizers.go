package catalog

import "github.com/sells-group/agronomy-cli/internal/model"

var fertilizers = []model.FertilizerProduct{
	{Name: "Urea", Composition: "46-0-0", Type: "Nitrogen", PricePerKg: 6.5},
	{Name: "DAP", Composition: "18-46-0", Type: "Phosphorus", PricePerKg: 27.0},
	{Name: "MOP", Composition: "0-0-60", Type: "Potassium", PricePerKg: 17.5},
	{Name: "NPK", Composition: "10-26-26", Type: "Complex", PricePerKg: 24.0},
	{Name: "SSP", Composition: "0-16-0", Type: "Phosphorus", PricePerKg: 8.5},
	{Name: "Zinc Sulfate", Composition: "Zn-21%", Type: "Micronutrient", PricePerKg: 65.0},
	{Name: "Iron Chelate", Composition: "Fe-12%", Type: "Micronutrient", PricePerKg: 120.0},
}

// Fertilizers returns the product listing.
func Fertilizers() []model.FertilizerProduct {
	out := make([]model.FertilizerProduct, len(fertilizers))
	copy(out, fertilizers)
	return out
}

// Stats is the static system summary served by the stats endpoint.
type Stats struct {
	TotalCropsSupported    int    `json:"total_crops_supported"`
	TotalFertilizers       int    `json:"total_fertilizers"`
	RecommendationAccuracy string `json:"recommendation_accuracy"`
	AvgYieldImprovement    string `json:"avg_yield_improvement"`
	FarmersHelped          int    `json:"farmers_helped"`
}

// SystemStats returns the summary figures.
func SystemStats() Stats {
	return Stats{
		TotalCropsSupported:    len(cropRequirements),
		TotalFertilizers:       len(fertilizers),
		RecommendationAccuracy: "92%",
		AvgYieldImprovement:    "15-25%",
		FarmersHelped:          1250,
	}
}
