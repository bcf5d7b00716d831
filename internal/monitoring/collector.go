// Package monitoring watches provider breakers and chat spend and raises
// webhook alerts when they cross configured limits.
package monitoring

import (
	"sort"
	"time"

	"github.com/sells-group/agronomy-cli/internal/cost"
	"github.com/sells-group/agronomy-cli/internal/resilience"
)

// Snapshot is a point-in-time view of provider health and spend.
type Snapshot struct {
	Breakers     map[string]string `json:"breakers"`
	OpenBreakers []string          `json:"open_breakers,omitempty"`
	ChatCalls    int               `json:"chat_calls"`
	ChatCostUSD  float64           `json:"chat_cost_usd"`
	CollectedAt  time.Time         `json:"collected_at"`
}

// BreakerSource reports breaker states by provider.
type BreakerSource interface {
	States() map[string]string
}

// SpendSource reports accumulated model spend.
type SpendSource interface {
	Total() cost.Spend
}

// Collector gathers snapshots. Either source may be nil.
type Collector struct {
	breakers BreakerSource
	spend    SpendSource
	now      func() time.Time
}

// NewCollector creates a new collector.
func NewCollector(breakers BreakerSource, spend SpendSource) *Collector {
	return &Collector{breakers: breakers, spend: spend, now: time.Now}
}

// Collect takes a snapshot.
func (c *Collector) Collect() *Snapshot {
	snap := &Snapshot{
		Breakers:    map[string]string{},
		CollectedAt: c.now().UTC(),
	}

	if c.breakers != nil {
		for name, state := range c.breakers.States() {
			snap.Breakers[name] = state
			if state == resilience.Open.String() {
				snap.OpenBreakers = append(snap.OpenBreakers, name)
			}
		}
		sort.Strings(snap.OpenBreakers)
	}

	if c.spend != nil {
		total := c.spend.Total()
		snap.ChatCalls = total.Calls
		snap.ChatCostUSD = total.USD
	}

	return snap
}
