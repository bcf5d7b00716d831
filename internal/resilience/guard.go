package resilience

import (
	"context"
	"sync"
	"time"
)

// Provider names used for breakers and log fields.
const (
	ProviderOpenWeather = "openweather"
	ProviderTranslate   = "translate"
	ProviderAnthropic   = "anthropic"
)

// Settings configure every Guard in a Guards set.
type Settings struct {
	Backoff          Backoff
	FailureThreshold int
	Cooldown         time.Duration
	// Timeout bounds each provider call including retries. Zero means 10s.
	Timeout time.Duration
}

// SettingsFrom builds Settings from flat config values. Non-positive values
// keep their defaults.
func SettingsFrom(maxAttempts, initialBackoffMs, maxBackoffMs, failureThreshold, resetSecs, timeoutSecs int) Settings {
	s := Settings{Backoff: DefaultBackoff(), FailureThreshold: 5, Cooldown: 30 * time.Second, Timeout: 10 * time.Second}
	if maxAttempts > 0 {
		s.Backoff.MaxAttempts = maxAttempts
	}
	if initialBackoffMs > 0 {
		s.Backoff.Initial = time.Duration(initialBackoffMs) * time.Millisecond
	}
	if maxBackoffMs > 0 {
		s.Backoff.Max = time.Duration(maxBackoffMs) * time.Millisecond
	}
	if failureThreshold > 0 {
		s.FailureThreshold = failureThreshold
	}
	if resetSecs > 0 {
		s.Cooldown = time.Duration(resetSecs) * time.Second
	}
	if timeoutSecs > 0 {
		s.Timeout = time.Duration(timeoutSecs) * time.Second
	}
	return s
}

// Guard wraps calls to one provider: timeout, then breaker, then retry.
type Guard struct {
	name    string
	breaker *Breaker
	backoff Backoff
	timeout time.Duration
}

// Name returns the provider name.
func (g *Guard) Name() string { return g.name }

// Breaker exposes the guard's circuit breaker.
func (g *Guard) Breaker() *Breaker { return g.breaker }

// Call runs fn under g. A nil guard runs fn directly.
func Call[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	if g == nil {
		return fn(ctx)
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return RunVal(ctx, g.breaker, func(ctx context.Context) (T, error) {
		return Retry(ctx, g.name, g.backoff, fn)
	})
}

// Guards hands out one Guard per provider.
type Guards struct {
	settings Settings

	mu     sync.Mutex
	guards map[string]*Guard
}

// NewGuards creates an empty guard set.
func NewGuards(s Settings) *Guards {
	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}
	return &Guards{settings: s, guards: make(map[string]*Guard)}
}

// For returns the guard for provider, creating it on first use.
func (gs *Guards) For(provider string) *Guard {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if g, ok := gs.guards[provider]; ok {
		return g
	}
	g := &Guard{
		name:    provider,
		breaker: NewBreaker(provider, gs.settings.FailureThreshold, gs.settings.Cooldown),
		backoff: gs.settings.Backoff,
		timeout: gs.settings.Timeout,
	}
	gs.guards[provider] = g
	return g
}

// States snapshots every breaker for health reporting.
func (gs *Guards) States() map[string]string {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	out := make(map[string]string, len(gs.guards))
	for name, g := range gs.guards {
		out[name] = g.breaker.State().String()
	}
	return out
}
