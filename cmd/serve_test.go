package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agronomy-cli/internal/advisory"
	"github.com/sells-group/agronomy-cli/internal/cost"
	"github.com/sells-group/agronomy-cli/internal/model"
	"github.com/sells-group/agronomy-cli/internal/resilience"
	"github.com/sells-group/agronomy-cli/internal/soil"
	"github.com/sells-group/agronomy-cli/internal/store"
)

func fptr(v float64) *float64 { return &v }

func testDataset() *soil.Dataset {
	return soil.NewDataset([]model.SoilReading{
		{Location: "Hadapsar", District: "Pune", State: "Maharashtra", SoilType: "black",
			PH: fptr(7.8), Nitrogen: fptr(60), Phosphorus: fptr(20), Potassium: fptr(150), OrganicMatter: fptr(0.9)},
		{Location: "Wardha Road", District: "Nagpur", State: "Maharashtra", SoilType: "red",
			PH: fptr(6.1), Nitrogen: fptr(80), Phosphorus: fptr(35), Potassium: fptr(110), OrganicMatter: fptr(1.4)},
		{Location: "Anand", District: "Anand", State: "Gujarat", SoilType: "alluvial",
			PH: fptr(7.2), Nitrogen: fptr(110), Phosphorus: fptr(45), Potassium: fptr(200), OrganicMatter: fptr(0.6)},
	})
}

type fakeGeocoder struct {
	loc *model.Location
	err error
}

func (f *fakeGeocoder) Geocode(_ context.Context, _, _ string) (*model.Location, error) {
	return f.loc, f.err
}

type fakeForecasts struct {
	forecast *model.Forecast
	err      error
}

func (f *fakeForecasts) Forecast(_ context.Context, _, _ float64) (*model.Forecast, error) {
	return f.forecast, f.err
}

type fakeTranslator struct {
	err error
}

func (f *fakeTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "[" + lang + "] " + text, nil
}

func newTestRouter(t *testing.T, env *appEnv) http.Handler {
	t.Helper()
	return buildRouter(env, []string{"http://localhost:3000"})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestBuildRouter_Index(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doJSON(t, h, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Fertilizer Recommendation System API", body["message"])
	eps := body["endpoints"].(map[string]any)
	assert.Contains(t, eps, "/api/recommend")
	assert.Contains(t, eps, "/api/chat")
}

func TestBuildRouter_Health(t *testing.T) {
	guards := resilience.NewGuards(resilience.SettingsFrom(1, 1, 1, 3, 30, 5))
	guards.For(resilience.ProviderOpenWeather)
	costs := cost.NewCalculator(cost.DefaultRates())
	costs.Record("claude-haiku-4-5-20251001", 1000000, 0)
	h := newTestRouter(t, &appEnv{Soil: testDataset(), Guards: guards, Costs: costs})

	rr := doJSON(t, h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	body := decodeBody(t, rr)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["soil_loaded"])
	assert.EqualValues(t, 3, body["soil_rows"])
	assert.Equal(t, false, body["chat"])
	assert.Equal(t, map[string]any{"openweather": "closed"}, body["breakers"])
	spend, ok := body["chat_spend"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, spend["calls"])
	assert.InDelta(t, 0.80, spend["usd"], 1e-9)
}

func TestBuildRouter_Recommend(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doJSON(t, h, http.MethodPost, "/api/recommend",
		`{"crop_type":"wheat","soil_ph":"7.0","nitrogen":0,"phosphorus":"0","potassium":0}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["timestamp"])
	assert.Equal(t, "7.0", body["input_parameters"].(map[string]any)["soil_ph"])

	var products []string
	for _, r := range body["recommendations"].([]any) {
		products = append(products, r.(map[string]any)["product"].(string))
	}
	assert.Contains(t, products, "Urea (46-0-0)")
	assert.Contains(t, products, "Triple Super Phosphate (0-46-0)")
}

func TestBuildRouter_RecommendUnsupportedCrop(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doJSON(t, h, http.MethodPost, "/api/recommend", `{"crop_type":"quinoa"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	recs := decodeBody(t, rr)["recommendations"].([]any)
	require.Len(t, recs, 1)
	assert.Equal(t, "error", recs[0].(map[string]any)["type"])
	assert.Equal(t, "Crop type not supported", recs[0].(map[string]any)["message"])
}

func TestBuildRouter_MalformedBodies(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		path string
		body string
	}{
		{"/api/recommend", `{not json`},
		{"/api/recommend", `{"crop_type":"rice","soil_ph":"acidic"}`},
		{"/api/soil-analysis", `[1,2]`},
		{"/api/advisory", `{"lat":"north"}`},
		{"/api/translate", ``},
		{"/api/feedback", `{"rating":`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, false, decodeBody(t, rr)["success"])
		})
	}
}

func TestBuildRouter_Listings(t *testing.T) {
	h := newTestRouter(t, nil)

	crops := decodeBody(t, doJSON(t, h, http.MethodGet, "/api/crops", ""))
	assert.Len(t, crops["crops"], 8)

	ferts := decodeBody(t, doJSON(t, h, http.MethodGet, "/api/fertilizers", ""))
	assert.Len(t, ferts["fertilizers"], 7)

	stats := decodeBody(t, doJSON(t, h, http.MethodGet, "/api/stats", ""))
	assert.EqualValues(t, 8, stats["total_crops_supported"])
	assert.EqualValues(t, 7, stats["total_fertilizers"])
	assert.NotEmpty(t, stats["last_updated"])
}

func TestBuildRouter_SoilAnalysis(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doJSON(t, h, http.MethodPost, "/api/soil-analysis",
		`{"soil_ph":5.0,"nitrogen":120,"phosphorus":"70","potassium":90,"organic_matter":4}`)

	require.Equal(t, http.StatusOK, rr.Code)
	analysis := decodeBody(t, rr)["analysis"].(map[string]any)
	assert.Equal(t, "Very Acidic", analysis["ph_status"].(map[string]any)["level"])
	assert.Contains(t, analysis, "overall_rating")
}

func TestBuildRouter_SoilsNotLoaded(t *testing.T) {
	h := newTestRouter(t, &appEnv{})

	rr := doJSON(t, h, http.MethodGet, "/api/soils?q=pune", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Soil dataset not loaded", decodeBody(t, rr)["error"])

	states := decodeBody(t, doJSON(t, h, http.MethodGet, "/api/locations/states", ""))
	assert.Equal(t, []any{}, states["states"])
}

func TestBuildRouter_SoilsSearch(t *testing.T) {
	h := newTestRouter(t, &appEnv{Soil: testDataset()})

	rr := doJSON(t, h, http.MethodGet, "/api/soils?q=maharashtra&limit=1", "")

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.EqualValues(t, 1, body["count"])
	first := body["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "Hadapsar, Pune, Maharashtra — black", first["label"])
	assert.Equal(t, 7.8, first["ph"])

	bad := doJSON(t, h, http.MethodGet, "/api/soils?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestBuildRouter_Locations(t *testing.T) {
	h := newTestRouter(t, &appEnv{Soil: testDataset()})

	states := decodeBody(t, doJSON(t, h, http.MethodGet, "/api/locations/states", ""))
	assert.Equal(t, []any{"Gujarat", "Maharashtra"}, states["states"])

	districts := decodeBody(t, doJSON(t, h, http.MethodGet, "/api/locations/districts?state=maharashtra", ""))
	assert.Equal(t, []any{"Nagpur", "Pune"}, districts["districts"])
}

func TestBuildRouter_AdvisoryWithoutProviders(t *testing.T) {
	h := newTestRouter(t, &appEnv{})

	rr := doJSON(t, h, http.MethodPost, "/api/advisory", `{"crop_type":"wheat","location_query":"Pune"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["weather_available"])
	assert.Equal(t, "en", body["language"])
	assert.Nil(t, body["resolved_location"])
	assert.Contains(t, body["advisory_en"], "Crop: Wheat")
	assert.Contains(t, body["advisory_en"], "Location: Pune")
	assert.NotEmpty(t, body["timestamp"])
}

func TestBuildRouter_AdvisoryWithWeatherAndTranslation(t *testing.T) {
	composer := advisory.NewComposer(testDataset(),
		advisory.WithGeocoder(&fakeGeocoder{loc: &model.Location{Name: "Pune", State: "Maharashtra", Country: "IN", Lat: 18.52, Lon: 73.85}}),
		advisory.WithForecasts(&fakeForecasts{forecast: &model.Forecast{
			Daily: []model.DailyForecast{{MaxTemp: fptr(40.5)}},
		}}),
		advisory.WithTranslator(&fakeTranslator{}),
	)
	h := newTestRouter(t, &appEnv{Soil: testDataset(), Composer: composer})

	rr := doJSON(t, h, http.MethodPost, "/api/advisory",
		`{"crop_type":"rice","location_query":"Pune","state":"Maharashtra","language":"hi"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["weather_available"])
	assert.Equal(t, "hi", body["language"])
	assert.True(t, strings.HasPrefix(body["advisory"].(string), "[hi] Crop: Rice"))
	assert.Contains(t, body["advisory_en"], "Alerts: High temperature expected: 40.5°C")
	assert.Equal(t, "Pune", body["resolved_location"].(map[string]any)["name"])
}

func TestBuildRouter_WeatherAlerts(t *testing.T) {
	composer := advisory.NewComposer(nil,
		advisory.WithGeocoder(&fakeGeocoder{}),
		advisory.WithForecasts(&fakeForecasts{forecast: &model.Forecast{
			Current: &model.CurrentConditions{Humidity: fptr(90)},
			Daily:   []model.DailyForecast{{MinTemp: fptr(8), PoP: fptr(0.7)}},
		}}),
	)
	h := newTestRouter(t, &appEnv{Composer: composer})

	t.Run("coordinates", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/api/weather-alerts?lat=21.1&lon=79.1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Len(t, body["alerts"], 2)
		assert.Len(t, body["insights"], 1)
		assert.Nil(t, body["warning"])
	})

	t.Run("no location", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/api/weather-alerts", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Provide lat/lon or q/state/district", decodeBody(t, rr)["error"])
	})

	t.Run("unresolved", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/api/weather-alerts?q=Atlantis", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Failed to resolve location name", decodeBody(t, rr)["error"])
	})

	t.Run("bad coordinates", func(t *testing.T) {
		rr := doJSON(t, h, http.MethodGet, "/api/weather-alerts?lat=x&lon=1", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestBuildRouter_WeatherAlertsForecastFailure(t *testing.T) {
	composer := advisory.NewComposer(nil, advisory.WithForecasts(&fakeForecasts{err: eris.New("boom")}))
	h := newTestRouter(t, &appEnv{Composer: composer})

	rr := doJSON(t, h, http.MethodGet, "/api/weather-alerts?lat=1&lon=2", "")

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Weather data unavailable.", body["warning"])
	assert.Equal(t, []any{}, body["alerts"])
}

func pngUpload(t *testing.T, c color.Color) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "leaf.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestBuildRouter_PestDetect(t *testing.T) {
	h := newTestRouter(t, nil)

	body, ct := pngUpload(t, color.RGBA{R: 150, G: 80, B: 60, A: 255})
	req := httptest.NewRequest(http.MethodPost, "/api/pest-detect", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	pred := decodeBody(t, rr)["prediction"].(map[string]any)
	assert.Equal(t, "suspected_leaf_rust", pred["label"])
	assert.Equal(t, 0.62, pred["confidence"])
}

func TestBuildRouter_PestDetectMissingImage(t *testing.T) {
	h := newTestRouter(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/pest-detect", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "No image file found (field 'image')", decodeBody(t, rr)["error"])
}

func TestBuildRouter_MarketPrices(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doJSON(t, h, http.MethodGet, "/api/market-prices?crop=Wheat&state=Punjab", "")

	require.Equal(t, http.StatusOK, rr.Code)
	prices := decodeBody(t, rr)["prices"].(map[string]any)
	assert.EqualValues(t, 2000, prices["min"])
	assert.EqualValues(t, 2150, prices["avg"])
	assert.EqualValues(t, 2450, prices["max"])
	assert.Equal(t, "wheat", prices["crop"])
	assert.Equal(t, "INR/qtl", prices["unit"])
	assert.Equal(t, "mock", prices["source"])
}

func TestBuildRouter_MarketHistory(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		query string
		days  int
	}{
		{"", 30},
		{"?days=3", 7},
		{"?days=0", 7},
		{"?days=500", 120},
		{"?days=45&district=Pune", 45},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := doJSON(t, h, http.MethodGet, "/api/market-prices/history"+tt.query, "")
			require.Equal(t, http.StatusOK, rr.Code)
			body := decodeBody(t, rr)
			assert.Equal(t, true, body["success"])
			assert.EqualValues(t, tt.days, body["days"])
			assert.Len(t, body["series"], tt.days)
		})
	}

	bad := doJSON(t, h, http.MethodGet, "/api/market-prices/history?days=many", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestBuildRouter_Translate(t *testing.T) {
	t.Run("english is identity", func(t *testing.T) {
		h := newTestRouter(t, &appEnv{Translator: &fakeTranslator{}})
		body := decodeBody(t, doJSON(t, h, http.MethodPost, "/api/translate", `{"text":"Apply urea"}`))
		assert.Equal(t, "Apply urea", body["translated"])
		assert.Equal(t, "en", body["language"])
	})

	t.Run("translated", func(t *testing.T) {
		h := newTestRouter(t, &appEnv{Translator: &fakeTranslator{}})
		body := decodeBody(t, doJSON(t, h, http.MethodPost, "/api/translate", `{"text":"Apply urea","language":"mr"}`))
		assert.Equal(t, "[mr] Apply urea", body["translated"])
		assert.Nil(t, body["warning"])
	})

	t.Run("unconfigured", func(t *testing.T) {
		h := newTestRouter(t, &appEnv{})
		body := decodeBody(t, doJSON(t, h, http.MethodPost, "/api/translate", `{"text":"Apply urea","language":"ta"}`))
		assert.Equal(t, "Apply urea", body["translated"])
		assert.NotEmpty(t, body["warning"])
	})

	t.Run("failure falls back", func(t *testing.T) {
		h := newTestRouter(t, &appEnv{Translator: &fakeTranslator{err: eris.New("down")}})
		body := decodeBody(t, doJSON(t, h, http.MethodPost, "/api/translate", `{"text":"Apply urea","language":"hi"}`))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Apply urea", body["translated"])
		assert.Equal(t, "translation unavailable", body["warning"])
	})
}

func TestBuildRouter_Feedback(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	h := newTestRouter(t, &appEnv{Store: st})

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(`{"rating":5,"comment":"useful"}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["id"])

	items, err := st.ListFeedback(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "203.0.113.9", items[0].ClientIP)
	assert.JSONEq(t, `{"rating":5,"comment":"useful"}`, string(items[0].Payload))
}

func TestBuildRouter_FeedbackWithoutStore(t *testing.T) {
	h := newTestRouter(t, &appEnv{})

	rr := doJSON(t, h, http.MethodPost, "/api/feedback", `{"rating":1}`)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func sseEvents(t *testing.T, body string) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, chunk := range strings.Split(strings.TrimSpace(body), "\n\n") {
		require.True(t, strings.HasPrefix(chunk, "data: "), chunk)
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(chunk, "data: ")), &ev))
		events = append(events, ev)
	}
	return events
}

func TestBuildRouter_ChatUnavailable(t *testing.T) {
	h := newTestRouter(t, &appEnv{})

	rr := doJSON(t, h, http.MethodPost, "/api/chat", `{"message":"When should I sow wheat?"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	events := sseEvents(t, rr.Body.String())
	require.Len(t, events, 2)
	assert.Contains(t, events[0]["chunk"], "Chat functionality is currently not available")
	assert.Equal(t, true, events[1]["done"])
	assert.Equal(t, events[0]["chunk"], events[1]["full_response"])
}

func TestBuildRouter_ChatErrors(t *testing.T) {
	h := newTestRouter(t, &appEnv{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"no body", ``, "No data received in request."},
		{"blank message", `{"message":"   "}`, "Message cannot be empty."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, h, http.MethodPost, "/api/chat", tt.body)
			events := sseEvents(t, rr.Body.String())
			require.Len(t, events, 1)
			assert.Equal(t, false, events[0]["success"])
			assert.Equal(t, tt.want, events[0]["error"])
		})
	}
}

func TestBuildRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPIServer_Timestamp(t *testing.T) {
	s := &apiServer{env: &appEnv{}, now: func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }}
	assert.Equal(t, "2026-03-01T09:30:00Z", s.timestamp())
}
