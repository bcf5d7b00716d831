package main

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agronomy-cli/internal/model"
)

// number accepts a JSON number or a numeric string.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return eris.Errorf("invalid number %q", s)
		}
		*n = number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = number(v)
	return nil
}

// ptr returns the value as *float64, or nil when unset.
func (n *number) ptr() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

func (n *number) or(def float64) float64 {
	if n == nil {
		return def
	}
	return float64(*n)
}

// soilInput is the body of the recommend and soil-analysis endpoints.
// Omitted fields take model.DefaultReadings values.
type soilInput struct {
	CropType      string  `json:"crop_type"`
	SoilName      string  `json:"soil_name"`
	SoilType      string  `json:"soil_type"`
	PH            *number `json:"soil_ph"`
	Nitrogen      *number `json:"nitrogen"`
	Phosphorus    *number `json:"phosphorus"`
	Potassium     *number `json:"potassium"`
	OrganicMatter *number `json:"organic_matter"`
	Moisture      *number `json:"moisture"`
	Temperature   *number `json:"temperature"`
}

func (in soilInput) readings() model.Readings {
	d := model.DefaultReadings()
	return model.Readings{
		PH:            in.PH.or(d.PH),
		Nitrogen:      in.Nitrogen.or(d.Nitrogen),
		Phosphorus:    in.Phosphorus.or(d.Phosphorus),
		Potassium:     in.Potassium.or(d.Potassium),
		OrganicMatter: in.OrganicMatter.or(d.OrganicMatter),
		Moisture:      in.Moisture.or(d.Moisture),
		Temperature:   in.Temperature.or(d.Temperature),
		SoilType:      model.ParseSoilType(in.SoilType),
	}
}

// advisoryInput is the body of the advisory endpoint.
type advisoryInput struct {
	CropType      string  `json:"crop_type"`
	LocationQuery string  `json:"location_query"`
	District      string  `json:"district"`
	State         string  `json:"state"`
	Lat           *number `json:"lat"`
	Lon           *number `json:"lon"`
	Language      string  `json:"language"`
}
