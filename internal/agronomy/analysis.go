package agronomy

import "github.com/sells-group/agronomy-cli/internal/model"

// Status is a graded soil indicator with a display color and advice.
type Status struct {
	Level          string `json:"level"`
	Color          string `json:"color"`
	Recommendation string `json:"recommendation"`
}

// Rating is the overall soil health score.
type Rating struct {
	Score    int    `json:"score"`
	Rating   string `json:"rating"`
	MaxScore int    `json:"max_score"`
}

// SoilAnalysis grades each measured soil indicator.
type SoilAnalysis struct {
	PH            Status `json:"ph_status"`
	Nitrogen      Status `json:"nitrogen_status"`
	Phosphorus    Status `json:"phosphorus_status"`
	Potassium     Status `json:"potassium_status"`
	OrganicMatter Status `json:"organic_matter_status"`
	Overall       Rating `json:"overall_rating"`
}

type nutrientBands struct {
	name              string
	low, medium, high float64
	good              float64
}

var (
	nitrogenBands   = nutrientBands{name: "nitrogen", low: 50, medium: 100, high: 150, good: 100}
	phosphorusBands = nutrientBands{name: "phosphorus", low: 30, medium: 60, high: 90, good: 60}
	potassiumBands  = nutrientBands{name: "potassium", low: 40, medium: 80, high: 120, good: 80}
)

// Analyze grades the readings. Moisture, temperature and soil type are ignored.
func Analyze(r model.Readings) SoilAnalysis {
	return SoilAnalysis{
		PH:            phStatus(r.PH),
		Nitrogen:      nutrientStatus(r.Nitrogen, nitrogenBands),
		Phosphorus:    nutrientStatus(r.Phosphorus, phosphorusBands),
		Potassium:     nutrientStatus(r.Potassium, potassiumBands),
		OrganicMatter: organicMatterStatus(r.OrganicMatter),
		Overall:       rate(r),
	}
}

func phStatus(ph float64) Status {
	switch {
	case ph < 5.5:
		return Status{"Very Acidic", "red", "Add lime to increase pH"}
	case ph < 6.0:
		return Status{"Acidic", "orange", "Consider adding lime"}
	case ph < 7.5:
		return Status{"Optimal", "green", "pH is in good range"}
	case ph < 8.0:
		return Status{"Slightly Alkaline", "orange", "Monitor pH levels"}
	default:
		return Status{"Very Alkaline", "red", "Add sulfur to decrease pH"}
	}
}

func nutrientStatus(v float64, b nutrientBands) Status {
	switch {
	case v < b.low:
		return Status{"Low", "red", "Apply " + b.name + " fertilizer"}
	case v < b.medium:
		return Status{"Medium", "orange", "Moderate " + b.name + " application needed"}
	case v < b.high:
		return Status{"Good", "green", b.name + " levels are adequate"}
	default:
		return Status{"High", "blue", b.name + " levels are sufficient"}
	}
}

func organicMatterStatus(om float64) Status {
	switch {
	case om < 1.0:
		return Status{"Very Low", "red", "Add compost or manure"}
	case om < 2.0:
		return Status{"Low", "orange", "Increase organic matter"}
	case om < 4.0:
		return Status{"Good", "green", "Organic matter is adequate"}
	default:
		return Status{"High", "blue", "Excellent organic matter content"}
	}
}

// rate scores pH, N, P, K and organic matter out of 25 each. The reported
// maximum stays at 100 for display compatibility.
func rate(r model.Readings) Rating {
	score := 0

	switch {
	case r.PH >= 6.0 && r.PH <= 7.5:
		score += 25
	case (r.PH >= 5.5 && r.PH < 6.0) || (r.PH > 7.5 && r.PH <= 8.0):
		score += 15
	default:
		score += 5
	}

	for _, n := range []struct {
		v float64
		b nutrientBands
	}{{r.Nitrogen, nitrogenBands}, {r.Phosphorus, phosphorusBands}, {r.Potassium, potassiumBands}} {
		switch {
		case n.v >= n.b.good:
			score += 25
		case n.v >= n.b.good*0.7:
			score += 15
		case n.v >= n.b.good*0.4:
			score += 10
		default:
			score += 5
		}
	}

	switch {
	case r.OrganicMatter >= 3.0:
		score += 25
	case r.OrganicMatter >= 2.0:
		score += 15
	case r.OrganicMatter >= 1.0:
		score += 10
	default:
		score += 5
	}

	rating := "Poor"
	switch {
	case score >= 90:
		rating = "Excellent"
	case score >= 75:
		rating = "Good"
	case score >= 60:
		rating = "Fair"
	}

	return Rating{Score: score, Rating: rating, MaxScore: 100}
}
