// Package catalog holds the immutable crop, soil and fertilizer reference tables.
package catalog

import "github.com/sells-group/agronomy-cli/internal/model"

var cropRequirements = map[model.Crop]model.CropRequirement{
	model.CropRice:      {Crop: model.CropRice, Nitrogen: 120, Phosphorus: 60, Potassium: 40, PHMin: 5.5, PHMax: 6.5},
	model.CropWheat:     {Crop: model.CropWheat, Nitrogen: 150, Phosphorus: 80, Potassium: 60, PHMin: 6.0, PHMax: 7.5},
	model.CropCorn:      {Crop: model.CropCorn, Nitrogen: 180, Phosphorus: 90, Potassium: 80, PHMin: 6.0, PHMax: 7.0},
	model.CropSoybean:   {Crop: model.CropSoybean, Nitrogen: 50, Phosphorus: 70, Potassium: 100, PHMin: 6.0, PHMax: 7.0},
	model.CropCotton:    {Crop: model.CropCotton, Nitrogen: 120, Phosphorus: 60, Potassium: 80, PHMin: 5.8, PHMax: 8.0},
	model.CropTomato:    {Crop: model.CropTomato, Nitrogen: 200, Phosphorus: 100, Potassium: 150, PHMin: 6.0, PHMax: 7.0},
	model.CropPotato:    {Crop: model.CropPotato, Nitrogen: 150, Phosphorus: 80, Potassium: 200, PHMin: 5.2, PHMax: 6.4},
	model.CropSugarcane: {Crop: model.CropSugarcane, Nitrogen: 250, Phosphorus: 75, Potassium: 100, PHMin: 6.0, PHMax: 7.5},
}

var cropInfo = []model.CropInfo{
	{Name: "Rice", Value: model.CropRice, Season: "Kharif", Duration: "120-150 days"},
	{Name: "Wheat", Value: model.CropWheat, Season: "Rabi", Duration: "120-140 days"},
	{Name: "Corn", Value: model.CropCorn, Season: "Kharif", Duration: "90-120 days"},
	{Name: "Soybean", Value: model.CropSoybean, Season: "Kharif", Duration: "90-120 days"},
	{Name: "Cotton", Value: model.CropCotton, Season: "Kharif", Duration: "180-200 days"},
	{Name: "Tomato", Value: model.CropTomato, Season: "All seasons", Duration: "90-120 days"},
	{Name: "Potato", Value: model.CropPotato, Season: "Rabi", Duration: "90-120 days"},
	{Name: "Sugarcane", Value: model.CropSugarcane, Season: "Annual", Duration: "365 days"},
}

// Requirement returns the nutrient targets for a crop name. The second return
// is false when the crop is not in the catalog.
func Requirement(crop string) (model.CropRequirement, bool) {
	c, ok := model.ParseCrop(crop)
	if !ok {
		return model.CropRequirement{}, false
	}
	req, ok := cropRequirements[c]
	return req, ok
}

// CropListing returns display metadata for every supported crop.
func CropListing() []model.CropInfo {
	out := make([]model.CropInfo, len(cropInfo))
	copy(out, cropInfo)
	return out
}
