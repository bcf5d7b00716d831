package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/assistant"
	"github.com/sells-group/agronomy-cli/internal/leaf"
	"github.com/sells-group/agronomy-cli/internal/market"
	"github.com/sells-group/agronomy-cli/pkg/translate"
)

func (s *apiServer) handlePestDetect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, leaf.MaxImageBytes+(1<<20))
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image file found (field 'image')")
		return
	}
	defer file.Close() //nolint:errcheck

	diag := leaf.Classify(io.LimitReader(file, leaf.MaxImageBytes))
	if diag.Label == leaf.LabelError {
		writeError(w, http.StatusBadRequest, diag.Advice)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "prediction": diag})
}

func (s *apiServer) handleMarketPrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"prices":  market.Current(q.Get("crop"), q.Get("state")),
	})
}

type historyResponse struct {
	Success bool `json:"success"`
	market.History
}

func (s *apiServer) handleMarketHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hq := market.HistoryQuery{Crop: q.Get("crop"), State: q.Get("state"), District: q.Get("district")}
	if v := strings.TrimSpace(q.Get("days")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		// An explicit value below the minimum clamps up rather than
		// selecting the default length.
		hq.Days = max(n, market.MinHistoryDays)
	}
	writeJSON(w, http.StatusOK, historyResponse{Success: true, History: market.PriceHistory(hq, s.now())})
}

func (s *apiServer) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lang := in.Language
	if strings.TrimSpace(lang) == "" {
		lang = "en"
	}

	resp := map[string]any{"success": true, "translated": in.Text, "language": lang}
	switch {
	case translate.Normalize(lang) == "en":
	case s.env.Translator == nil:
		resp["warning"] = "translation service not configured"
	default:
		out, err := s.env.Translator.Translate(r.Context(), in.Text, lang)
		if err != nil {
			zap.L().Warn("translate request failed", zap.String("language", lang), zap.Error(err))
			resp["warning"] = "translation unavailable"
			break
		}
		resp["translated"] = out
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleFeedback(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.env.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "feedback store unavailable")
		return
	}

	fb, err := s.env.Store.SaveFeedback(r.Context(), json.RawMessage(body), clientIP(r))
	if err != nil {
		zap.L().Error("save feedback", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save feedback")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": fb.ID})
}

type chatRequest struct {
	Message string           `json:"message"`
	History []assistant.Turn `json:"history"`
}

// handleChat answers over server-sent events: one chunk event carrying the
// reply, then a done event with the full response. Failures are sent as a
// single data event with success=false.
func (s *apiServer) handleChat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeEvent(w, map[string]any{"success": false, "error": "No data received in request."})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeEvent(w, map[string]any{"success": false, "error": "Message cannot be empty."})
		return
	}

	start := time.Now()
	ans, err := s.env.Assistant.Ask(r.Context(), req.Message, req.History)
	if err != nil {
		zap.L().Error("chat failed", zap.Error(err))
		writeEvent(w, map[string]any{
			"success": false,
			"error":   "An error occurred while processing your request.",
			"details": err.Error(),
		})
		return
	}
	zap.L().Debug("chat answered",
		zap.Bool("available", ans.Available),
		zap.Duration("elapsed", time.Since(start)),
	)

	writeEvent(w, map[string]any{"chunk": ans.Text, "success": true})
	writeEvent(w, map[string]any{"success": true, "done": true, "full_response": ans.Text})
}

func writeEvent(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("encode event", zap.Error(err))
		return
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
