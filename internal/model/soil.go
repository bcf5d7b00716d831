package model

import "strings"

// SoilType is a soil classification used to bias recommendations.
type SoilType string

const (
	SoilUnknown  SoilType = ""
	SoilSandy    SoilType = "sandy"
	SoilClay     SoilType = "clay"
	SoilLoam     SoilType = "loam"
	SoilRed      SoilType = "red"
	SoilBlack    SoilType = "black"
	SoilAlluvial SoilType = "alluvial"
	SoilLaterite SoilType = "laterite"
)

// SoilTypes lists every known soil type.
var SoilTypes = []SoilType{
	SoilSandy, SoilClay, SoilLoam, SoilRed, SoilBlack, SoilAlluvial, SoilLaterite,
}

// ParseSoilType maps s to a known soil type. Anything unrecognized, including
// the empty string, maps to SoilUnknown.
func ParseSoilType(s string) SoilType {
	t := SoilType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SoilTypes {
		if t == known {
			return t
		}
	}
	return SoilUnknown
}

// SoilTraits are the soil-type modifiers applied on top of crop targets.
// The zero value means "no bias, no preference overrides".
type SoilTraits struct {
	SoilType               SoilType `json:"soil_type"`
	PHBias                 float64  `json:"ph_bias"`
	PreferredPotassium     string   `json:"preferred_potassium,omitempty"`
	PreferredPhosphorus    string   `json:"preferred_phosphorus,omitempty"`
	PreferredBalanced      string   `json:"preferred_balanced,omitempty"`
	PreferredMicronutrient string   `json:"preferred_micronutrient,omitempty"`
	Organic                bool     `json:"organic"`
	Notes                  string   `json:"notes,omitempty"`
}

// SoilReading is one surveyed site from the soil dataset. Numeric columns are
// optional; nil means the value was not recorded.
type SoilReading struct {
	SoilID        *int64   `csv:"soil_id,omitempty" json:"soil_id"`
	Location      string   `csv:"location" json:"location"`
	District      string   `csv:"district" json:"district"`
	State         string   `csv:"state" json:"state"`
	SoilType      string   `csv:"soil_type" json:"soil_type"`
	PH            *float64 `csv:"ph,omitempty" json:"ph"`
	Nitrogen      *float64 `csv:"nitrogen,omitempty" json:"nitrogen"`
	Phosphorus    *float64 `csv:"phosphorus,omitempty" json:"phosphorus"`
	Potassium     *float64 `csv:"potassium,omitempty" json:"potassium"`
	OrganicMatter *float64 `csv:"organic_matter,omitempty" json:"organic_matter"`
	Moisture      *float64 `csv:"moisture,omitempty" json:"moisture"`
	Temperature   *float64 `csv:"temperature,omitempty" json:"temperature"`
	Season        string   `csv:"season" json:"season"`
}

// SoilSnapshot is the aggregate soil profile representative of a location.
type SoilSnapshot struct {
	PH            float64 `json:"soil_ph"`
	Nitrogen      float64 `json:"nitrogen"`
	Phosphorus    float64 `json:"phosphorus"`
	Potassium     float64 `json:"potassium"`
	OrganicMatter float64 `json:"organic_matter"`
	Moisture      float64 `json:"moisture"`
	Temperature   float64 `json:"temperature"`
	SoilType      string  `json:"soil_type"`
}

// NeutralSnapshot returns the fixed snapshot used when no soil data is available.
func NeutralSnapshot() SoilSnapshot {
	return SoilSnapshot{
		PH:            6.8,
		Nitrogen:      90,
		Phosphorus:    50,
		Potassium:     70,
		OrganicMatter: 2.5,
		Moisture:      55,
		Temperature:   26,
		SoilType:      string(SoilLoam),
	}
}

// Readings are observed soil conditions supplied by a caller or derived from
// a snapshot.
type Readings struct {
	PH            float64  `json:"soil_ph"`
	Nitrogen      float64  `json:"nitrogen"`
	Phosphorus    float64  `json:"phosphorus"`
	Potassium     float64  `json:"potassium"`
	OrganicMatter float64  `json:"organic_matter"`
	Moisture      float64  `json:"moisture"`
	Temperature   float64  `json:"temperature"`
	SoilType      SoilType `json:"soil_type"`
}

// DefaultReadings mirrors the defaults applied to omitted request fields.
func DefaultReadings() Readings {
	return Readings{
		PH:            7.0,
		OrganicMatter: 2.5,
		Moisture:      50,
		Temperature:   25,
	}
}

// SnapshotReadings converts a soil snapshot into recommendation inputs.
func SnapshotReadings(s SoilSnapshot) Readings {
	return Readings{
		PH:            s.PH,
		Nitrogen:      s.Nitrogen,
		Phosphorus:    s.Phosphorus,
		Potassium:     s.Potassium,
		OrganicMatter: s.OrganicMatter,
		Moisture:      s.Moisture,
		Temperature:   s.Temperature,
		SoilType:      ParseSoilType(s.SoilType),
	}
}
