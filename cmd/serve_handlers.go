package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agronomy-cli/internal/advisory"
	"github.com/sells-group/agronomy-cli/internal/agronomy"
	"github.com/sells-group/agronomy-cli/internal/catalog"
	"github.com/sells-group/agronomy-cli/internal/cost"
	"github.com/sells-group/agronomy-cli/internal/soil"
)

const apiVersion = "1.0.0"

var endpoints = map[string]string{
	"/health":                     "GET - Service and provider health",
	"/api/recommend":              "POST - Get fertilizer recommendations",
	"/api/crops":                  "GET - Get all available crops",
	"/api/fertilizers":            "GET - Get all available fertilizers",
	"/api/soil-analysis":          "POST - Analyze soil conditions",
	"/api/stats":                  "GET - Get system statistics",
	"/api/soils":                  "GET - Search the soil survey dataset",
	"/api/locations/states":       "GET - List states in the soil dataset",
	"/api/locations/districts":    "GET - List districts, optionally for one state",
	"/api/advisory":               "POST - Location-specific multilingual crop advisory",
	"/api/weather-alerts":         "GET - Forecast alerts for a location",
	"/api/pest-detect":            "POST - Leaf photo diagnosis (multipart field 'image')",
	"/api/market-prices":          "GET - Current mandi price band",
	"/api/market-prices/history":  "GET - Daily mandi price history",
	"/api/translate":              "POST - Translate text",
	"/api/feedback":               "POST - Submit feedback",
	"/api/chat":                   "POST - Farm assistant chat (server-sent events)",
}

func (s *apiServer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Fertilizer Recommendation System API",
		"version":   apiVersion,
		"endpoints": endpoints,
	})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	breakers := map[string]string{}
	if s.env.Guards != nil {
		breakers = s.env.Guards.States()
	}
	var spend cost.Spend
	if s.env.Costs != nil {
		spend = s.env.Costs.Total()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"soil_loaded": s.env.Soil.Loaded(),
		"soil_rows":   s.env.Soil.Len(),
		"store":       s.env.Store != nil,
		"translate":   s.env.Translator != nil,
		"chat":        s.env.Assistant.Available(),
		"breakers":    breakers,
		"chat_spend":  spend,
	})
}

func (s *apiServer) handleRecommend(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in soilInput
	if err := json.Unmarshal(body, &in); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body").Error())
		return
	}

	recs := agronomy.Recommend(in.CropType, in.readings())
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"recommendations":  recs,
		"input_parameters": json.RawMessage(body),
		"timestamp":        s.timestamp(),
	})
}

func (s *apiServer) handleCrops(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"crops": catalog.CropListing()})
}

func (s *apiServer) handleFertilizers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"fertilizers": catalog.Fertilizers()})
}

func (s *apiServer) handleSoilAnalysis(w http.ResponseWriter, r *http.Request) {
	var in soilInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": agronomy.Analyze(in.readings()),
	})
}

type statsResponse struct {
	catalog.Stats
	LastUpdated string `json:"last_updated"`
}

func (s *apiServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{Stats: catalog.SystemStats(), LastUpdated: s.timestamp()})
}

func (s *apiServer) handleSoils(w http.ResponseWriter, r *http.Request) {
	if !s.env.Soil.Loaded() {
		writeError(w, http.StatusInternalServerError, "Soil dataset not loaded")
		return
	}
	limit := soil.DefaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	results := s.env.Soil.Search(r.URL.Query().Get("q"), limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(results),
		"results": results,
	})
}

func (s *apiServer) handleStates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "states": s.env.Soil.States()})
}

func (s *apiServer) handleDistricts(w http.ResponseWriter, r *http.Request) {
	districts := s.env.Soil.Districts(r.URL.Query().Get("state"))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "districts": districts})
}

type advisoryResponse struct {
	Success bool `json:"success"`
	*advisory.Report
	Timestamp string `json:"timestamp"`
}

func (s *apiServer) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	var in advisoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep := s.env.Composer.Build(r.Context(), advisory.Request{
		Crop:          in.CropType,
		LocationQuery: in.LocationQuery,
		District:      in.District,
		State:         in.State,
		Lat:           in.Lat.ptr(),
		Lon:           in.Lon.ptr(),
		Language:      in.Language,
	})
	writeJSON(w, http.StatusOK, advisoryResponse{Success: true, Report: rep, Timestamp: s.timestamp()})
}

type weatherResponse struct {
	Success bool `json:"success"`
	*advisory.WeatherReport
}

func (s *apiServer) handleWeatherAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := advisory.WeatherRequest{
		Query:    q.Get("q"),
		District: q.Get("district"),
		State:    q.Get("state"),
	}
	if latS, lonS := strings.TrimSpace(q.Get("lat")), strings.TrimSpace(q.Get("lon")); latS != "" && lonS != "" {
		lat, errLat := strconv.ParseFloat(latS, 64)
		lon, errLon := strconv.ParseFloat(lonS, 64)
		if errLat != nil || errLon != nil {
			writeError(w, http.StatusBadRequest, "lat and lon must be numbers")
			return
		}
		req.Lat, req.Lon = &lat, &lon
	}

	rep, err := s.env.Composer.WeatherAlerts(r.Context(), req)
	switch {
	case eris.Is(err, advisory.ErrNoLocation):
		writeError(w, http.StatusBadRequest, "Provide lat/lon or q/state/district")
		return
	case eris.Is(err, advisory.ErrUnresolved):
		writeError(w, http.StatusBadRequest, "Failed to resolve location name")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, weatherResponse{Success: true, WeatherReport: rep})
}
