package advisory

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agronomy-cli/internal/model"
)

type fakeGeocoder struct {
	loc   *model.Location
	err   error
	calls atomic.Int32
	query string
	state string
}

func (f *fakeGeocoder) Geocode(_ context.Context, query, state string) (*model.Location, error) {
	f.calls.Add(1)
	f.query, f.state = query, state
	return f.loc, f.err
}

type fakeForecasts struct {
	forecast *model.Forecast
	err      error
	lat, lon float64
}

func (f *fakeForecasts) Forecast(_ context.Context, lat, lon float64) (*model.Forecast, error) {
	f.lat, f.lon = lat, lon
	return f.forecast, f.err
}

type upperTranslator struct {
	err  error
	lang string
}

func (u *upperTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	u.lang = lang
	if u.err != nil {
		return "", u.err
	}
	return strings.ToUpper(text), nil
}

type fixedSoil struct {
	snap  model.SoilSnapshot
	query string
}

func (f *fixedSoil) Resolve(query string) model.SoilSnapshot {
	f.query = query
	return f.snap
}

func f64(v float64) *float64 { return &v }

func puneLocation() *model.Location {
	return &model.Location{Name: "Pune", State: "Maharashtra", Country: "IN", Lat: 18.52, Lon: 73.85}
}

func hotHumidForecast() *model.Forecast {
	return &model.Forecast{
		Current: &model.CurrentConditions{Humidity: f64(90), WindSpeed: f64(3)},
		Daily: []model.DailyForecast{
			{MaxTemp: f64(40.5), MinTemp: f64(25), PoP: f64(0.1)},
		},
	}
}

func TestBuild_FullReport(t *testing.T) {
	geo := &fakeGeocoder{loc: puneLocation()}
	fc := &fakeForecasts{forecast: hotHumidForecast()}
	c := NewComposer(nil, WithGeocoder(geo), WithForecasts(fc))

	rep := c.Build(context.Background(), Request{Crop: "wheat", LocationQuery: "Pune", State: "Maharashtra"})

	want := strings.Join([]string{
		"Crop: Wheat",
		"Location: Pune",
		"Resolved: Pune, Maharashtra, IN",
		"Coordinates: 18.52, 73.85",
		"Soil snapshot: pH 6.8, N 90, P 50, K 70, OM 2.5%",
		"Weather insights: High humidity may increase fungal disease risk. Monitor leaves and ensure airflow.",
		"Alerts: High temperature expected: 40.5°C",
		"Fertilizer guidance:",
		"- [high] primary_nutrient: Urea (46-0-0) — 130 kg/hectare (Nitrogen deficiency: 60 kg/ha needed)",
		"- [medium] primary_nutrient: DAP (18-46-0) — 65 kg/hectare (Moderate phosphorus deficiency: 30 kg/ha needed)",
	}, "\n")
	assert.Equal(t, want, rep.AdvisoryEN)
	assert.Equal(t, rep.AdvisoryEN, rep.Advisory)
	assert.Equal(t, "en", rep.Language)
	assert.True(t, rep.WeatherAvailable)
	assert.Equal(t, puneLocation(), rep.ResolvedLocation)
	assert.Empty(t, rep.Warnings)
	assert.Equal(t, "Pune", geo.query)
	assert.Equal(t, "Maharashtra", geo.state)
	assert.Equal(t, 18.52, fc.lat)
}

func TestBuild_CoordinatesSkipGeocoding(t *testing.T) {
	geo := &fakeGeocoder{loc: puneLocation()}
	fc := &fakeForecasts{forecast: &model.Forecast{}}
	c := NewComposer(nil, WithGeocoder(geo), WithForecasts(fc))

	rep := c.Build(context.Background(), Request{Crop: "rice", LocationQuery: "Pune", Lat: f64(18), Lon: f64(73.5)})

	assert.Zero(t, geo.calls.Load())
	assert.Nil(t, rep.ResolvedLocation)
	assert.Contains(t, rep.AdvisoryEN, "Coordinates: 18, 73.5\n")
	assert.NotContains(t, rep.AdvisoryEN, "Resolved:")
	assert.True(t, rep.WeatherAvailable)
}

func TestBuild_UsesSoilResolver(t *testing.T) {
	soil := &fixedSoil{snap: model.SoilSnapshot{
		PH: 5.0, Nitrogen: 20, Phosphorus: 10, Potassium: 20,
		OrganicMatter: 1.0, Moisture: 30, Temperature: 28, SoilType: "sandy",
	}}
	c := NewComposer(soil)

	rep := c.Build(context.Background(), Request{Crop: "rice", LocationQuery: "Nagpur"})

	assert.Equal(t, "Nagpur", soil.query)
	assert.Equal(t, soil.snap, rep.Soil)
	assert.Contains(t, rep.AdvisoryEN, "Soil snapshot: pH 5.0, N 20, P 10, K 20, OM 1.0%")
	assert.Contains(t, rep.AdvisoryEN, "- [high] pH_adjustment: Lime (CaCO3)")
	assert.Len(t, rep.Recommendations, 6)
}

func TestBuild_NoLocation(t *testing.T) {
	c := NewComposer(nil)
	rep := c.Build(context.Background(), Request{})

	assert.Equal(t, "rice", rep.Crop)
	assert.False(t, rep.WeatherAvailable)
	assert.Empty(t, rep.Warnings)
	assert.NotContains(t, rep.AdvisoryEN, "Note:")
	assert.NotContains(t, rep.AdvisoryEN, "Location:")
	assert.True(t, strings.HasPrefix(rep.AdvisoryEN, "Crop: Rice\nSoil snapshot:"))
	assert.NotNil(t, rep.Alerts)
	assert.NotNil(t, rep.Insights)
}

func TestBuild_DegradedCollaborators(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		req  Request
		note string
	}{
		{
			name: "no weather provider",
			req:  Request{LocationQuery: "Pune"},
			note: noWeatherKeyNote,
		},
		{
			name: "geocode error",
			opts: []Option{WithGeocoder(&fakeGeocoder{err: eris.New("timeout")}), WithForecasts(&fakeForecasts{})},
			req:  Request{LocationQuery: "Pune"},
			note: unresolvedNote,
		},
		{
			name: "geocode no match",
			opts: []Option{WithGeocoder(&fakeGeocoder{}), WithForecasts(&fakeForecasts{})},
			req:  Request{District: "Atlantis"},
			note: unresolvedNote,
		},
		{
			name: "forecast error",
			opts: []Option{WithForecasts(&fakeForecasts{err: eris.New("503")})},
			req:  Request{Lat: f64(1), Lon: f64(2)},
			note: weatherFailedNote,
		},
		{
			name: "coordinates without forecast provider",
			req:  Request{Lat: f64(1), Lon: f64(2)},
			note: noWeatherKeyNote,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := NewComposer(nil, tt.opts...).Build(context.Background(), tt.req)
			assert.False(t, rep.WeatherAvailable)
			assert.Contains(t, rep.AdvisoryEN, "Note: "+tt.note+"\nFertilizer guidance:")
			assert.Equal(t, []string{tt.note}, rep.Warnings)
			assert.Contains(t, rep.AdvisoryEN, "- [")
		})
	}
}

func TestBuild_Translation(t *testing.T) {
	tr := &upperTranslator{}
	c := NewComposer(nil, WithTranslator(tr))

	rep := c.Build(context.Background(), Request{Crop: "corn", Language: "hi"})
	assert.Equal(t, "hi", tr.lang)
	assert.Equal(t, strings.ToUpper(rep.AdvisoryEN), rep.Advisory)
	assert.Equal(t, "hi", rep.Language)
}

func TestBuild_TranslationFailureFallsBack(t *testing.T) {
	c := NewComposer(nil, WithTranslator(&upperTranslator{err: eris.New("down")}))

	rep := c.Build(context.Background(), Request{Crop: "corn", Language: "ta"})
	assert.Equal(t, rep.AdvisoryEN, rep.Advisory)
	assert.Equal(t, []string{translateFailedNote}, rep.Warnings)
}

func TestBuild_TranslatorMissing(t *testing.T) {
	rep := NewComposer(nil).Build(context.Background(), Request{Language: "mr"})
	assert.Equal(t, rep.AdvisoryEN, rep.Advisory)
	assert.Equal(t, []string{translateFailedNote}, rep.Warnings)
}

func TestBuild_DefaultLanguageVariants(t *testing.T) {
	for _, lang := range []string{"en", "EN", "en-US", " en-IN "} {
		t.Run(lang, func(t *testing.T) {
			rep := NewComposer(nil).Build(context.Background(), Request{Crop: "rice", Language: lang})
			assert.Equal(t, rep.AdvisoryEN, rep.Advisory)
			assert.Empty(t, rep.Warnings)

			tr := &upperTranslator{}
			rep = NewComposer(nil, WithTranslator(tr)).Build(context.Background(), Request{Crop: "rice", Language: lang})
			assert.Equal(t, rep.AdvisoryEN, rep.Advisory)
			assert.Empty(t, tr.lang, "translator should not be called")
		})
	}
}

func TestBuild_UnsupportedCrop(t *testing.T) {
	rep := NewComposer(nil).Build(context.Background(), Request{Crop: "banana"})

	require.Len(t, rep.Recommendations, 1)
	assert.True(t, rep.Recommendations[0].IsError())
	assert.True(t, strings.HasSuffix(rep.AdvisoryEN, "Fertilizer guidance:\n- [error] Crop type not supported"))
	assert.True(t, strings.HasPrefix(rep.AdvisoryEN, "Crop: Banana\n"))
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "Pune, IN", joinNonEmpty(", ", "Pune", "", "IN"))
	assert.Equal(t, "", joinNonEmpty(", ", "", ""))
}
