// Package weather turns a forecast into threshold alerts and field-work insights.
package weather

import (
	"strconv"

	"github.com/sells-group/agronomy-cli/internal/model"
)

const (
	// HorizonDays is how many forecast days are inspected.
	HorizonDays = 3

	HeatThresholdC     = 38.0
	ColdThresholdC     = 10.0
	RainProbability    = 0.5
	HumidityPercent    = 85.0
	WindSpeedThreshold = 10.0
)

const (
	rainMessage     = "High chance of rain; plan irrigation and fertilizer accordingly"
	humidityInsight = "High humidity may increase fungal disease risk. Monitor leaves and ensure airflow."
	windInsight     = "High winds expected. Secure structures and avoid foliar sprays."
)

// Generate scans the first HorizonDays days for heat, cold and rain alerts
// and the current conditions for humidity and wind insights. Missing metrics
// are skipped. A nil forecast yields no output. Both slices are non-nil.
func Generate(f *model.Forecast) ([]model.WeatherAlert, []string) {
	alerts := []model.WeatherAlert{}
	insights := []string{}
	if f == nil {
		return alerts, insights
	}

	days := f.Daily
	if len(days) > HorizonDays {
		days = days[:HorizonDays]
	}
	for _, d := range days {
		if d.MaxTemp != nil && *d.MaxTemp >= HeatThresholdC {
			alerts = append(alerts, model.WeatherAlert{
				Type:    model.AlertHeat,
				Message: "High temperature expected: " + celsius(*d.MaxTemp) + "°C",
			})
		}
		if d.MinTemp != nil && *d.MinTemp <= ColdThresholdC {
			alerts = append(alerts, model.WeatherAlert{
				Type:    model.AlertCold,
				Message: "Low temperature expected: " + celsius(*d.MinTemp) + "°C",
			})
		}
		if d.PoP != nil && *d.PoP >= RainProbability {
			alerts = append(alerts, model.WeatherAlert{Type: model.AlertRain, Message: rainMessage})
		}
	}

	if c := f.Current; c != nil {
		if c.Humidity != nil && *c.Humidity >= HumidityPercent {
			insights = append(insights, humidityInsight)
		}
		if c.WindSpeed != nil && *c.WindSpeed >= WindSpeedThreshold {
			insights = append(insights, windInsight)
		}
	}

	return alerts, insights
}

func celsius(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
