package advisory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/model"
	"github.com/sells-group/agronomy-cli/internal/resilience"
	"github.com/sells-group/agronomy-cli/internal/store"
	"github.com/sells-group/agronomy-cli/pkg/openweather"
	"github.com/sells-group/agronomy-cli/pkg/translate"
)

// Geocoder resolves a place name to coordinates. A nil location with a nil
// error means no match.
type Geocoder interface {
	Geocode(ctx context.Context, query, state string) (*model.Location, error)
}

// ForecastFetcher returns the forecast at a coordinate.
type ForecastFetcher interface {
	Forecast(ctx context.Context, lat, lon float64) (*model.Forecast, error)
}

// Translator localizes text. Implementations return text unchanged for the
// default language.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

// SoilResolver returns a soil snapshot for a location query. *soil.Dataset
// implements it.
type SoilResolver interface {
	Resolve(query string) model.SoilSnapshot
}

// GeocodeCache is the store subset used to cache geocoding results.
type GeocodeCache interface {
	GetCachedGeocode(ctx context.Context, key string) (*store.GeocodeEntry, error)
	SetCachedGeocode(ctx context.Context, key string, loc *model.Location, ttl time.Duration) error
}

// DefaultGeocodeTTL is how long geocoding results are cached.
const DefaultGeocodeTTL = 168 * time.Hour

// OpenWeather adapts an openweather.Client to Geocoder and ForecastFetcher,
// guarding calls and caching geocoding results.
type OpenWeather struct {
	client openweather.Client
	guard  *resilience.Guard
	cache  GeocodeCache
	ttl    time.Duration
}

// NewOpenWeather creates the adapter. guard and cache may be nil.
func NewOpenWeather(client openweather.Client, guard *resilience.Guard, cache GeocodeCache, ttl time.Duration) *OpenWeather {
	if ttl <= 0 {
		ttl = DefaultGeocodeTTL
	}
	return &OpenWeather{client: client, guard: guard, cache: cache, ttl: ttl}
}

// Geocode resolves query within state. Misses are cached as negative entries.
func (o *OpenWeather) Geocode(ctx context.Context, query, state string) (*model.Location, error) {
	key := store.GeocodeKey(query, state)
	if o.cache != nil {
		entry, err := o.cache.GetCachedGeocode(ctx, key)
		switch {
		case err != nil:
			zap.L().Warn("advisory: geocode cache read failed", zap.Error(err))
		case entry != nil:
			zap.L().Debug("advisory: geocode cache hit",
				zap.String("query", query), zap.Bool("found", entry.Found))
			return entry.Location, nil
		}
	}

	place, err := resilience.Call(ctx, o.guard, func(ctx context.Context) (*openweather.Place, error) {
		p, err := o.client.Geocode(ctx, query, state)
		if errors.Is(err, openweather.ErrNoMatch) {
			return nil, nil
		}
		return p, err
	})
	if err != nil {
		return nil, err
	}
	if place == nil {
		o.remember(ctx, key, nil)
		return nil, nil
	}

	loc := &model.Location{
		Name:    place.Name,
		State:   place.State,
		Country: place.Country,
		Lat:     place.Lat,
		Lon:     place.Lon,
	}
	o.remember(ctx, key, loc)
	return loc, nil
}

func (o *OpenWeather) remember(ctx context.Context, key string, loc *model.Location) {
	if o.cache == nil {
		return
	}
	if err := o.cache.SetCachedGeocode(ctx, key, loc, o.ttl); err != nil {
		zap.L().Warn("advisory: geocode cache write failed", zap.Error(err))
	}
}

// Forecast fetches current conditions and daily forecast at lat/lon.
func (o *OpenWeather) Forecast(ctx context.Context, lat, lon float64) (*model.Forecast, error) {
	resp, err := resilience.Call(ctx, o.guard, func(ctx context.Context) (*openweather.OneCallResponse, error) {
		return o.client.OneCall(ctx, lat, lon)
	})
	if err != nil {
		return nil, err
	}
	return toForecast(resp), nil
}

func toForecast(resp *openweather.OneCallResponse) *model.Forecast {
	if resp == nil {
		return nil
	}
	f := &model.Forecast{}
	if c := resp.Current; c != nil {
		f.Current = &model.CurrentConditions{
			Temp:      c.Temp,
			Humidity:  c.Humidity,
			WindSpeed: c.WindSpeed,
		}
	}
	for _, d := range resp.Daily {
		f.Daily = append(f.Daily, model.DailyForecast{
			Time:    d.Dt,
			MaxTemp: d.Temp.Max,
			MinTemp: d.Temp.Min,
			PoP:     d.PoP,
		})
	}
	return f
}

// TranslateService adapts a translate.Client to Translator.
type TranslateService struct {
	client translate.Client
	guard  *resilience.Guard
}

// NewTranslateService creates the adapter. guard may be nil.
func NewTranslateService(client translate.Client, guard *resilience.Guard) *TranslateService {
	return &TranslateService{client: client, guard: guard}
}

func (t *TranslateService) Translate(ctx context.Context, text, lang string) (string, error) {
	return resilience.Call(ctx, t.guard, func(ctx context.Context) (string, error) {
		return t.client.Translate(ctx, text, lang)
	})
}
