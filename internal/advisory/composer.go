// Package advisory composes soil, weather and fertilizer guidance into a
// single localized report for a crop and location.
package advisory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/agronomy-cli/internal/agronomy"
	"github.com/sells-group/agronomy-cli/internal/model"
	"github.com/sells-group/agronomy-cli/internal/weather"
	"github.com/sells-group/agronomy-cli/pkg/translate"
)

const (
	DefaultCrop     = "rice"
	DefaultLanguage = "en"

	noWeatherKeyNote    = "OPENWEATHER_API_KEY not set"
	weatherFailedNote   = "Weather data unavailable."
	unresolvedNote      = "Location could not be resolved; weather data unavailable."
	translateFailedNote = "Translation unavailable; advisory shown in English."
)

// Request is an advisory request. Lat and Lon skip geocoding when both are set.
type Request struct {
	Crop          string   `json:"crop_type"`
	LocationQuery string   `json:"location_query"`
	District      string   `json:"district,omitempty"`
	State         string   `json:"state,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lon           *float64 `json:"lon,omitempty"`
	Language      string   `json:"language"`
}

// Report is a composed advisory. Advisory is the localized text and
// AdvisoryEN the English original.
type Report struct {
	Advisory         string                 `json:"advisory" yaml:"advisory"`
	AdvisoryEN       string                 `json:"advisory_en" yaml:"advisory_en"`
	Language         string                 `json:"language" yaml:"language"`
	Crop             string                 `json:"crop" yaml:"crop"`
	Soil             model.SoilSnapshot     `json:"soil" yaml:"soil"`
	Recommendations  []model.Recommendation `json:"recommendations" yaml:"recommendations"`
	Alerts           []model.WeatherAlert   `json:"alerts" yaml:"alerts"`
	Insights         []string               `json:"insights" yaml:"insights"`
	WeatherAvailable bool                   `json:"weather_available" yaml:"weather_available"`
	ResolvedLocation *model.Location        `json:"resolved_location" yaml:"resolved_location"`
	Warnings         []string               `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Option configures a Composer.
type Option func(*Composer)

// WithGeocoder sets the place-name resolver.
func WithGeocoder(g Geocoder) Option {
	return func(c *Composer) { c.geocoder = g }
}

// WithForecasts sets the forecast source.
func WithForecasts(f ForecastFetcher) Option {
	return func(c *Composer) { c.forecasts = f }
}

// WithTranslator sets the localizer.
func WithTranslator(t Translator) Option {
	return func(c *Composer) { c.translator = t }
}

// Composer builds advisories. Collaborators left unset are reported as
// unavailable in the report. Safe for concurrent use.
type Composer struct {
	soil       SoilResolver
	geocoder   Geocoder
	forecasts  ForecastFetcher
	translator Translator
	title      cases.Caser
}

// NewComposer creates a Composer over a soil resolver, which may be nil.
func NewComposer(soil SoilResolver, opts ...Option) *Composer {
	c := &Composer{soil: soil, title: cases.Title(language.English)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// weatherResult is the outcome of the location and forecast leg.
type weatherResult struct {
	resolved *model.Location
	lat, lon *float64
	forecast *model.Forecast
	note     string
}

// Build composes the advisory for req. Collaborator failures become notes
// and warnings; Build always returns a report.
func (c *Composer) Build(ctx context.Context, req Request) *Report {
	crop := strings.TrimSpace(req.Crop)
	if crop == "" {
		crop = DefaultCrop
	}
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = DefaultLanguage
	}

	var (
		g  errgroup.Group
		wr weatherResult
	)
	g.Go(func() error {
		wr = c.weather(ctx, req)
		return nil
	})

	snap := model.NeutralSnapshot()
	if c.soil != nil {
		snap = c.soil.Resolve(req.LocationQuery)
	}
	recs := agronomy.Recommend(crop, model.SnapshotReadings(snap))

	_ = g.Wait()

	alerts, insights := weather.Generate(wr.forecast)

	rep := &Report{
		Language:         lang,
		Crop:             crop,
		Soil:             snap,
		Recommendations:  recs,
		Alerts:           alerts,
		Insights:         insights,
		WeatherAvailable: wr.forecast != nil,
		ResolvedLocation: wr.resolved,
	}
	if wr.note != "" {
		rep.Warnings = append(rep.Warnings, wr.note)
	}

	rep.AdvisoryEN = c.render(rep, req.LocationQuery, wr)
	rep.Advisory = c.localize(ctx, rep, lang)
	return rep
}

func (c *Composer) weather(ctx context.Context, req Request) weatherResult {
	var wr weatherResult
	if req.Lat != nil && req.Lon != nil {
		wr.lat, wr.lon = req.Lat, req.Lon
	} else if req.LocationQuery != "" || req.State != "" || req.District != "" {
		query := req.LocationQuery
		if query == "" {
			query = req.District
		}
		if c.geocoder == nil {
			wr.note = noWeatherKeyNote
			return wr
		}
		loc, err := c.geocoder.Geocode(ctx, query, req.State)
		if err != nil {
			zap.L().Warn("advisory: geocode failed",
				zap.String("query", query), zap.String("state", req.State), zap.Error(err))
			wr.note = unresolvedNote
			return wr
		}
		if loc == nil {
			wr.note = unresolvedNote
			return wr
		}
		wr.resolved = loc
		wr.lat, wr.lon = &loc.Lat, &loc.Lon
	}

	if wr.lat == nil || wr.lon == nil {
		return wr
	}
	if c.forecasts == nil {
		wr.note = noWeatherKeyNote
		return wr
	}
	f, err := c.forecasts.Forecast(ctx, *wr.lat, *wr.lon)
	if err != nil {
		zap.L().Warn("advisory: forecast fetch failed",
			zap.Float64("lat", *wr.lat), zap.Float64("lon", *wr.lon), zap.Error(err))
		wr.note = weatherFailedNote
		return wr
	}
	wr.forecast = f
	return wr
}

func (c *Composer) render(rep *Report, locationQuery string, wr weatherResult) string {
	lines := []string{"Crop: " + c.title.String(strings.ToLower(rep.Crop))}

	if locationQuery != "" {
		lines = append(lines, "Location: "+locationQuery)
	}
	if loc := wr.resolved; loc != nil {
		if pretty := joinNonEmpty(", ", loc.Name, loc.State, loc.Country); pretty != "" {
			lines = append(lines, "Resolved: "+pretty)
		}
	}
	if wr.lat != nil && wr.lon != nil {
		lines = append(lines, "Coordinates: "+coord(*wr.lat)+", "+coord(*wr.lon))
	}

	s := rep.Soil
	lines = append(lines, fmt.Sprintf("Soil snapshot: pH %.1f, N %.0f, P %.0f, K %.0f, OM %.1f%%",
		s.PH, s.Nitrogen, s.Phosphorus, s.Potassium, s.OrganicMatter))

	if len(rep.Insights) > 0 {
		lines = append(lines, "Weather insights: "+strings.Join(rep.Insights, "; "))
	}
	if len(rep.Alerts) > 0 {
		msgs := make([]string, len(rep.Alerts))
		for i, a := range rep.Alerts {
			msgs[i] = a.Message
		}
		lines = append(lines, "Alerts: "+strings.Join(msgs, "; "))
	}
	if wr.note != "" {
		lines = append(lines, "Note: "+wr.note)
	}

	lines = append(lines, "Fertilizer guidance:")
	for _, r := range rep.Recommendations {
		lines = append(lines, recommendationLine(r))
	}
	return strings.Join(lines, "\n")
}

func (c *Composer) localize(ctx context.Context, rep *Report, lang string) string {
	if translate.Normalize(lang) == DefaultLanguage {
		return rep.AdvisoryEN
	}
	if c.translator == nil {
		rep.Warnings = append(rep.Warnings, translateFailedNote)
		return rep.AdvisoryEN
	}
	out, err := c.translator.Translate(ctx, rep.AdvisoryEN, lang)
	if err != nil {
		zap.L().Warn("advisory: translation failed", zap.String("language", lang), zap.Error(err))
		rep.Warnings = append(rep.Warnings, translateFailedNote)
		return rep.AdvisoryEN
	}
	return out
}

func recommendationLine(r model.Recommendation) string {
	if r.IsError() {
		return "- [error] " + r.Message
	}
	return fmt.Sprintf("- [%s] %s: %s — %s (%s)", r.Priority, r.Type, r.Product, r.Quantity, r.Reason)
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
