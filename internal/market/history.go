package market

import (
	"hash/fnv"
	"strings"
	"time"
)

const (
	DefaultHistoryDays = 30
	MinHistoryDays     = 7
	MaxHistoryDays     = 120
)

// Point is one day of a price series.
type Point struct {
	Date string `json:"date" yaml:"date"`
	Band `yaml:",inline"`
}

// History is a daily price series ending the day before the reference date.
type History struct {
	Unit     string  `json:"unit" yaml:"unit"`
	Crop     string  `json:"crop" yaml:"crop"`
	State    string  `json:"state" yaml:"state"`
	District *string `json:"district" yaml:"district"`
	Days     int     `json:"days" yaml:"days"`
	Series   []Point `json:"series" yaml:"series"`
}

// HistoryQuery selects a price series. Days outside [7, 120] are clamped;
// zero means DefaultHistoryDays.
type HistoryQuery struct {
	Crop     string
	State    string
	District string
	Days     int
}

// ClampDays bounds a requested series length.
func ClampDays(days int) int {
	if days == 0 {
		return DefaultHistoryDays
	}
	return max(MinHistoryDays, min(days, MaxHistoryDays))
}

// PriceHistory builds the series for q, oldest first, for the days before
// today. The same query and date always produce the same series.
func PriceHistory(q HistoryQuery, today time.Time) History {
	crop, state := normalize(q.Crop, q.State)
	district := strings.TrimSpace(q.District)
	days := ClampDays(q.Days)

	base := Base(crop)
	stateF, districtF := StateFactor(state), DistrictFactor(district)

	y, m, d := today.UTC().Date()
	day0 := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	series := make([]Point, 0, days)
	for i := days; i > 0; i-- {
		date := day0.AddDate(0, 0, -i)
		p := Point{
			Date: date.Format(time.DateOnly),
			Band: base.scale(stateF, districtF, wobble(date, crop)),
		}
		p.Avg = max(p.Min, min(p.Avg, p.Max))
		series = append(series, p)
	}

	h := History{
		Unit:   Unit,
		Crop:   crop,
		State:  state,
		Days:   days,
		Series: series,
	}
	if district != "" {
		h.District = &district
	}
	return h
}

// wobble is a deterministic daily multiplier within ±3%.
func wobble(date time.Time, crop string) float64 {
	hs := fnv.New32a()
	_, _ = hs.Write([]byte(date.Format(time.DateOnly) + "|" + crop))
	seed := int(hs.Sum32()%11) - 5
	return 1.0 + float64(seed)/100.0*0.6
}
