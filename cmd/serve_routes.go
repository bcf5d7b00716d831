package main

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/advisory"
	"github.com/sells-group/agronomy-cli/internal/assistant"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// apiServer binds HTTP handlers to an environment.
type apiServer struct {
	env *appEnv
	now func() time.Time
}

// buildRouter wires every API route. Nil services in env degrade the
// affected endpoints instead of failing.
func buildRouter(env *appEnv, corsOrigins []string) http.Handler {
	if env == nil {
		env = &appEnv{}
	}
	if env.Composer == nil {
		env.Composer = advisory.NewComposer(env.Soil)
	}
	if env.Assistant == nil {
		env.Assistant = assistant.New(nil, nil, assistant.Config{})
	}
	s := &apiServer{env: env, now: time.Now}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/recommend", s.handleRecommend)
		r.Get("/crops", s.handleCrops)
		r.Get("/fertilizers", s.handleFertilizers)
		r.Post("/soil-analysis", s.handleSoilAnalysis)
		r.Get("/stats", s.handleStats)

		r.Get("/soils", s.handleSoils)
		r.Get("/locations/states", s.handleStates)
		r.Get("/locations/districts", s.handleDistricts)

		r.Post("/advisory", s.handleAdvisory)
		r.Get("/weather-alerts", s.handleWeatherAlerts)
		r.Post("/translate", s.handleTranslate)

		r.Post("/pest-detect", s.handlePestDetect)
		r.Get("/market-prices", s.handleMarketPrices)
		r.Get("/market-prices/history", s.handleMarketHistory)

		r.Post("/feedback", s.handleFeedback)
		r.Post("/chat", s.handleChat)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *apiServer) timestamp() string {
	return s.now().Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}
	return body, nil
}

// decodeJSON decodes a bounded JSON object body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return eris.Wrap(err, "invalid request body")
	}
	return nil
}

// clientIP strips the port from RemoteAddr, which RealIP has already
// replaced with any forwarded address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
