package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/config"
)

// Checker runs periodic alert checks in the background. An alert is sent
// once when its condition starts and again only after it clears.
type Checker struct {
	collector *Collector
	alerter   *Alerter
	cfg       config.MonitoringConfig
	active    map[string]bool
}

// NewChecker creates a background alert checker.
func NewChecker(collector *Collector, alerter *Alerter, cfg config.MonitoringConfig) *Checker {
	return &Checker{
		collector: collector,
		alerter:   alerter,
		cfg:       cfg,
		active:    map[string]bool{},
	}
}

// Run starts the periodic check loop. It blocks until ctx is cancelled.
func (c *Checker) Run(ctx context.Context) {
	interval := time.Duration(c.cfg.CheckIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	log := zap.L().With(zap.String("component", "monitoring.checker"))
	log.Info("starting alert checker", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("alert checker stopped")
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Check collects one snapshot and sends alerts for newly triggered
// conditions. It returns the number of alerts sent.
func (c *Checker) Check(ctx context.Context) int {
	alerts := c.alerter.Evaluate(c.collector.Collect())

	seen := make(map[string]bool, len(alerts))
	var fresh []Alert
	for _, a := range alerts {
		k := a.Key()
		seen[k] = true
		if !c.active[k] {
			fresh = append(fresh, a)
		}
	}
	for k := range c.active {
		if !seen[k] {
			zap.L().Info("monitoring: alert cleared", zap.String("key", k))
		}
	}
	c.active = seen

	if len(fresh) == 0 {
		return 0
	}
	sent := c.alerter.SendAlerts(ctx, fresh)
	zap.L().Info("monitoring: alert check complete",
		zap.Int("alerts_triggered", len(fresh)),
		zap.Int("alerts_sent", sent),
	)
	return sent
}
