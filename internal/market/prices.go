// Package market produces indicative mandi price quotes and price history
// per crop and state. Figures are deterministic mock data until a live feed
// is integrated.
package market

import (
	"strings"
)

// Unit is the price unit for every quote.
const Unit = "INR/qtl"

// Source labels mock figures.
const Source = "mock"

const (
	DefaultCrop  = "wheat"
	DefaultState = "Maharashtra"
)

// Band is a min/avg/max price band.
type Band struct {
	Min int `json:"min" yaml:"min"`
	Avg int `json:"avg" yaml:"avg"`
	Max int `json:"max" yaml:"max"`
}

// Quote is the current price band for a crop in a state.
type Quote struct {
	Band   `yaml:",inline"`
	Unit   string `json:"unit" yaml:"unit"`
	Crop   string `json:"crop" yaml:"crop"`
	State  string `json:"state" yaml:"state"`
	Source string `json:"source" yaml:"source"`
	Note   string `json:"note" yaml:"note"`
}

var basePrices = map[string]Band{
	"wheat":   {Min: 1900, Avg: 2050, Max: 2400},
	"rice":    {Min: 2000, Avg: 2300, Max: 2700},
	"soybean": {Min: 3700, Avg: 4200, Max: 4700},
	"tomato":  {Min: 700, Avg: 1100, Max: 1800},
	"corn":    {Min: 1600, Avg: 1850, Max: 2200},
}

var fallbackBand = Band{Min: 1000, Avg: 1500, Max: 2000}

type cropState struct {
	crop, state string
}

var overrides = map[cropState]Band{
	{"wheat", "Punjab"}:           {Min: 2000, Avg: 2150, Max: 2450},
	{"wheat", "Madhya Pradesh"}:   {Min: 1950, Avg: 2100, Max: 2400},
	{"rice", "West Bengal"}:       {Min: 2100, Avg: 2350, Max: 2750},
	{"rice", "Tamil Nadu"}:        {Min: 2050, Avg: 2320, Max: 2720},
	{"soybean", "Maharashtra"}:    {Min: 3850, Avg: 4300, Max: 4800},
	{"soybean", "Madhya Pradesh"}: {Min: 3800, Avg: 4250, Max: 4750},
	{"tomato", "Karnataka"}:       {Min: 900, Avg: 1300, Max: 1900},
	{"corn", "Bihar"}:             {Min: 1650, Avg: 1900, Max: 2250},
}

// Base returns the national base band for crop, or a generic band for
// crops without a table entry.
func Base(crop string) Band {
	if b, ok := basePrices[crop]; ok {
		return b
	}
	return fallbackBand
}

// Current returns the price quote for crop in state. Blank arguments take
// DefaultCrop and DefaultState. Explicit overrides win over the derived
// state variation.
func Current(crop, state string) Quote {
	crop, state = normalize(crop, state)

	band, ok := overrides[cropState{crop, state}]
	if !ok {
		band = Base(crop).scale(StateFactor(state))
	}

	return Quote{
		Band:   band,
		Unit:   Unit,
		Crop:   crop,
		State:  state,
		Source: Source,
		Note:   "State-wise variation applied. Integrate Agmarknet for live data.",
	}
}

// StateFactor maps a state name onto a multiplier in [0.95, 1.05].
func StateFactor(state string) float64 {
	h := runeSum(state) % 21
	return 0.95 + float64(h)/20.0*0.10
}

// DistrictFactor maps a district name onto a multiplier in [0.98, 1.02].
// A blank district is neutral.
func DistrictFactor(district string) float64 {
	if district == "" {
		return 1.0
	}
	h := runeSum(district) % 11
	return 0.98 + float64(h)/10.0*0.04
}

// scale multiplies each price by factors left to right, then truncates.
func (b Band) scale(factors ...float64) Band {
	apply := func(v int) int {
		x := float64(v)
		for _, f := range factors {
			x *= f
		}
		return int(x)
	}
	return Band{Min: apply(b.Min), Avg: apply(b.Avg), Max: apply(b.Max)}
}

func normalize(crop, state string) (string, string) {
	crop = strings.ToLower(strings.TrimSpace(crop))
	if crop == "" {
		crop = DefaultCrop
	}
	state = strings.TrimSpace(state)
	if state == "" {
		state = DefaultState
	}
	return crop, state
}

func runeSum(s string) int {
	n := 0
	for _, r := range s {
		n += int(r)
	}
	return n
}
