package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertProviderDown AlertType = "provider_down"
	AlertCostOverrun  AlertType = "cost_overrun"
)

// Alert is the webhook payload.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Subject   string         `json:"subject"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Key identifies an alert condition across checks.
func (a Alert) Key() string {
	return string(a.Type) + ":" + a.Subject
}

// Alerter turns snapshots into alerts and delivers them to a webhook.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates an Alerter.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
}

// Evaluate returns one alert per open breaker plus a spend alert when the
// threshold is set and exceeded.
func (a *Alerter) Evaluate(snap *Snapshot) []Alert {
	var alerts []Alert

	for _, name := range snap.OpenBreakers {
		alerts = append(alerts, Alert{
			Type:     AlertProviderDown,
			Severity: "high",
			Subject:  name,
			Message:  fmt.Sprintf("Circuit breaker for %s is open; requests are failing fast", name),
			Details: map[string]any{
				"provider": name,
				"state":    snap.Breakers[name],
			},
			Timestamp: snap.CollectedAt,
		})
	}

	if a.cfg.CostThresholdUSD > 0 && snap.ChatCostUSD > a.cfg.CostThresholdUSD {
		alerts = append(alerts, Alert{
			Type:     AlertCostOverrun,
			Severity: "medium",
			Subject:  "chat",
			Message: fmt.Sprintf(
				"Chat model cost $%.2f exceeds threshold $%.2f (%d calls)",
				snap.ChatCostUSD, a.cfg.CostThresholdUSD, snap.ChatCalls,
			),
			Details: map[string]any{
				"cost_usd":      snap.ChatCostUSD,
				"threshold_usd": a.cfg.CostThresholdUSD,
				"calls":         snap.ChatCalls,
			},
			Timestamp: snap.CollectedAt,
		})
	}

	return alerts
}

// SendAlerts posts each alert to the configured webhook and returns how
// many were accepted. Delivery failures are logged, not returned.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" {
		return 0
	}

	var sent int
	for _, alert := range alerts {
		log := zap.L().With(
			zap.String("type", string(alert.Type)),
			zap.String("subject", alert.Subject),
		)
		if err := a.post(ctx, alert); err != nil {
			log.Error("monitoring: alert delivery failed", zap.Error(err))
			continue
		}
		log.Info("monitoring: alert delivered", zap.String("severity", alert.Severity))
		sent++
	}
	return sent
}

func (a *Alerter) post(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: encode alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "monitoring: build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "agronomy-cli/monitoring")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: post webhook")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return eris.Errorf("monitoring: webhook status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
