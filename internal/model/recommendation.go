package model

// Category classifies a recommendation.
type Category string

const (
	CategoryPHAdjustment    Category = "pH_adjustment"
	CategoryPrimaryNutrient Category = "primary_nutrient"
	CategoryOrganic         Category = "organic"
	CategoryMicronutrient   Category = "micronutrient"
	CategoryBalanced        Category = "balanced"
	// CategoryError marks the single sentinel entry returned for unsupported crops.
	CategoryError Category = "error"
)

// Priority ranks how urgently a recommendation should be applied.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Nutrient is one of the primary macronutrients.
type Nutrient string

const (
	NutrientN Nutrient = "N"
	NutrientP Nutrient = "P"
	NutrientK Nutrient = "K"
)

// Deficit is the shortfall of a nutrient below a crop target. Amount is never negative.
type Deficit struct {
	Nutrient Nutrient `json:"nutrient"`
	Amount   float64  `json:"amount"`
}

// Recommendation is a single actionable fertilizer or amendment suggestion.
type Recommendation struct {
	Type     Category `json:"type"`
	Product  string   `json:"product,omitempty"`
	Quantity string   `json:"quantity,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// IsError reports whether r is the unsupported-input sentinel.
func (r Recommendation) IsError() bool {
	return r.Type == CategoryError
}

// FertilizerProduct describes a product in the fertilizer listing.
type FertilizerProduct struct {
	Name        string  `json:"name"`
	Composition string  `json:"composition"`
	Type        string  `json:"type"`
	PricePerKg  float64 `json:"price_per_kg"`
}
