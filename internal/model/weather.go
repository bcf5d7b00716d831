package model

// Forecast is the subset of a multi-day weather forecast used for alerts.
// Pointer fields distinguish a missing metric from a zero reading.
type Forecast struct {
	Current *CurrentConditions `json:"current,omitempty"`
	Daily   []DailyForecast    `json:"daily,omitempty"`
}

// CurrentConditions holds the observed weather at request time.
type CurrentConditions struct {
	Temp      *float64 `json:"temp,omitempty"`
	Humidity  *float64 `json:"humidity,omitempty"`
	WindSpeed *float64 `json:"wind_speed,omitempty"`
}

// DailyForecast is one forecast day.
type DailyForecast struct {
	Time    int64    `json:"dt,omitempty"`
	MaxTemp *float64 `json:"max_temp,omitempty"`
	MinTemp *float64 `json:"min_temp,omitempty"`
	PoP     *float64 `json:"pop,omitempty"`
}

// AlertType classifies a weather alert.
type AlertType string

const (
	AlertHeat AlertType = "heat"
	AlertCold AlertType = "cold"
	AlertRain AlertType = "rain"
)

// WeatherAlert is a threshold-triggered warning for a forecast day.
type WeatherAlert struct {
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
}

// Location is a geocoded place.
type Location struct {
	Name    string  `json:"name,omitempty"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
