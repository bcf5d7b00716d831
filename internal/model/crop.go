package model

import "strings"

// Crop identifies a crop supported by the requirement catalog.
type Crop string

const (
	CropRice      Crop = "rice"
	CropWheat     Crop = "wheat"
	CropCorn      Crop = "corn"
	CropSoybean   Crop = "soybean"
	CropCotton    Crop = "cotton"
	CropTomato    Crop = "tomato"
	CropPotato    Crop = "potato"
	CropSugarcane Crop = "sugarcane"
)

// Crops lists every supported crop in catalog order.
var Crops = []Crop{
	CropRice, CropWheat, CropCorn, CropSoybean,
	CropCotton, CropTomato, CropPotato, CropSugarcane,
}

// ParseCrop normalizes s and reports whether it names a supported crop.
func ParseCrop(s string) (Crop, bool) {
	c := Crop(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Crops {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// CropRequirement holds the nutrient targets (kg/hectare) and acceptable pH
// window for a crop.
type CropRequirement struct {
	Crop       Crop    `json:"crop"`
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
	PHMin      float64 `json:"ph_min"`
	PHMax      float64 `json:"ph_max"`
}

// CropInfo is the display metadata for a crop listing.
type CropInfo struct {
	Name     string `json:"name"`
	Value    Crop   `json:"value"`
	Season   string `json:"season"`
	Duration string `json:"duration"`
}
