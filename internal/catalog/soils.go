package catalog

import "github.com/sells-group/agronomy-cli/internal/model"

var soilTraits = map[model.SoilType]model.SoilTraits{
	model.SoilSandy: {
		SoilType:           model.SoilSandy,
		Notes:              "Sandy soils leach N and K faster; split applications recommended",
		PreferredPotassium: "Sulfate of Potash (0-0-50)",
		Organic:            true,
	},
	model.SoilClay: {
		SoilType:            model.SoilClay,
		Notes:               "Clay soils may fix P; consider band placement and organic matter",
		PreferredPhosphorus: "DAP (18-46-0)",
		Organic:             true,
		PHBias:              0.1,
	},
	model.SoilLoam: {
		SoilType:          model.SoilLoam,
		Notes:             "Loam soils are generally balanced; maintain with NPK",
		PreferredBalanced: "NPK (10-10-10)",
	},
	model.SoilRed: {
		SoilType: model.SoilRed,
		Notes:    "Red soils often low in N and OM",
		Organic:  true,
		PHBias:   -0.1,
	},
	model.SoilBlack: {
		SoilType:               model.SoilBlack,
		Notes:                  "Black (vertisol) soils may be slightly alkaline; monitor Zn and S",
		PreferredMicronutrient: "Zinc Sulfate",
		PHBias:                 0.2,
	},
	model.SoilAlluvial: {
		SoilType:          model.SoilAlluvial,
		Notes:             "Alluvial soils moderately fertile; balanced NPK works well",
		PreferredBalanced: "NPK (10-10-10)",
	},
	model.SoilLaterite: {
		SoilType: model.SoilLaterite,
		Notes:    "Laterite soils are acidic and low in bases; lime and OM helpful",
		Organic:  true,
		PHBias:   -0.2,
	},
}

// Traits returns the modifiers for a soil type. SoilUnknown yields zero traits.
func Traits(t model.SoilType) model.SoilTraits {
	return soilTraits[t]
}
