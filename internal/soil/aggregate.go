package soil

import (
	"strings"

	"github.com/sells-group/agronomy-cli/internal/model"
)

// mean accumulates present values of one column.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

// or returns the mean, or fallback when no value was present.
func (m mean) or(fallback float64) float64 {
	if m.n == 0 {
		return fallback
	}
	return m.sum / float64(m.n)
}

// aggregate reduces rows to per-column means and the modal soil type.
// All-missing columns take the neutral value.
func aggregate(rows []model.SoilReading) model.SoilSnapshot {
	var ph, n, p, k, om, moist, temp mean
	counts := make(map[string]int)

	for _, r := range rows {
		ph.add(r.PH)
		n.add(r.Nitrogen)
		p.add(r.Phosphorus)
		k.add(r.Potassium)
		om.add(r.OrganicMatter)
		moist.add(r.Moisture)
		temp.add(r.Temperature)

		if t := strings.ToLower(strings.TrimSpace(r.SoilType)); t != "" {
			counts[t]++
		}
	}

	neutral := model.NeutralSnapshot()
	return model.SoilSnapshot{
		PH:            ph.or(neutral.PH),
		Nitrogen:      n.or(neutral.Nitrogen),
		Phosphorus:    p.or(neutral.Phosphorus),
		Potassium:     k.or(neutral.Potassium),
		OrganicMatter: om.or(neutral.OrganicMatter),
		Moisture:      moist.or(neutral.Moisture),
		Temperature:   temp.or(neutral.Temperature),
		SoilType:      mode(counts, neutral.SoilType),
	}
}

// mode returns the most frequent key; ties go to the lexicographically
// smallest.
func mode(counts map[string]int, fallback string) string {
	best, bestN := "", 0
	for k, c := range counts {
		if c > bestN || (c == bestN && k < best) {
			best, bestN = k, c
		}
	}
	if bestN == 0 {
		return fallback
	}
	return best
}
