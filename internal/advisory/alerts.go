package advisory

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/model"
	"github.com/sells-group/agronomy-cli/internal/weather"
)

var (
	// ErrNoLocation is returned when neither coordinates nor a place name are given.
	ErrNoLocation = eris.New("advisory: provide lat/lon or q/state/district")
	// ErrUnresolved is returned when a place name cannot be geocoded.
	ErrUnresolved = eris.New("advisory: failed to resolve location name")
)

// WeatherRequest selects a location for WeatherAlerts.
type WeatherRequest struct {
	Query    string
	District string
	State    string
	Lat      *float64
	Lon      *float64
}

// WeatherReport is the standalone alerts result. Warning is set when the
// forecast could not be fetched.
type WeatherReport struct {
	Alerts           []model.WeatherAlert `json:"alerts" yaml:"alerts"`
	Insights         []string             `json:"insights" yaml:"insights"`
	Warning          *string              `json:"warning" yaml:"warning"`
	ResolvedLocation *model.Location      `json:"resolved_location" yaml:"resolved_location"`
}

// WeatherAlerts resolves the location in req and returns forecast alerts and
// insights. Missing or unresolvable locations are errors; forecast failures
// are reported as a warning with empty alerts.
func (c *Composer) WeatherAlerts(ctx context.Context, req WeatherRequest) (*WeatherReport, error) {
	rep := &WeatherReport{}

	var lat, lon float64
	if req.Lat != nil && req.Lon != nil {
		lat, lon = *req.Lat, *req.Lon
	} else {
		query := strings.TrimSpace(req.Query)
		if query == "" {
			query = strings.TrimSpace(req.District)
		}
		if query == "" && strings.TrimSpace(req.State) == "" {
			return nil, ErrNoLocation
		}
		if c.geocoder == nil {
			return nil, eris.Wrap(ErrUnresolved, noWeatherKeyNote)
		}
		loc, err := c.geocoder.Geocode(ctx, query, strings.TrimSpace(req.State))
		if err != nil {
			zap.L().Warn("advisory: geocode failed", zap.String("query", query), zap.Error(err))
			return nil, ErrUnresolved
		}
		if loc == nil {
			return nil, ErrUnresolved
		}
		rep.ResolvedLocation = loc
		lat, lon = loc.Lat, loc.Lon
	}

	var forecast *model.Forecast
	switch {
	case c.forecasts == nil:
		rep.Warning = ptr(noWeatherKeyNote)
	default:
		f, err := c.forecasts.Forecast(ctx, lat, lon)
		if err != nil {
			zap.L().Warn("advisory: forecast fetch failed",
				zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
			rep.Warning = ptr(weatherFailedNote)
		}
		forecast = f
	}

	rep.Alerts, rep.Insights = weather.Generate(forecast)
	return rep, nil
}

func ptr[T any](v T) *T { return &v }
