package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Backoff controls retry of transient failures.
type Backoff struct {
	// MaxAttempts counts the first try; 1 disables retry.
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
	Multiplier  float64
	// Jitter is a fraction of the computed delay applied in both directions.
	Jitter float64
}

// DefaultBackoff is tuned for interactive requests: one retry, short delays.
func DefaultBackoff() Backoff {
	return Backoff{
		MaxAttempts: 2,
		Initial:     250 * time.Millisecond,
		Max:         2 * time.Second,
		Multiplier:  2,
		Jitter:      0.25,
	}
}

func (b Backoff) normalized() Backoff {
	d := DefaultBackoff()
	if b.MaxAttempts <= 0 {
		b.MaxAttempts = d.MaxAttempts
	}
	if b.Initial <= 0 {
		b.Initial = d.Initial
	}
	if b.Max <= 0 {
		b.Max = d.Max
	}
	if b.Multiplier <= 0 {
		b.Multiplier = d.Multiplier
	}
	if b.Jitter < 0 {
		b.Jitter = 0
	}
	return b
}

// delay returns the wait before retry number attempt (0-based).
func (b Backoff) delay(attempt int) time.Duration {
	d := float64(b.Initial) * math.Pow(b.Multiplier, float64(attempt))
	if d > float64(b.Max) {
		d = float64(b.Max)
	}
	if b.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * b.Jitter
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// Retry calls fn until it succeeds, returns a non-transient error, the
// attempts run out, or ctx is done.
func Retry[T any](ctx context.Context, provider string, b Backoff, fn func(context.Context) (T, error)) (T, error) {
	b = b.normalized()

	var zero T
	var err error
	for attempt := 0; attempt < b.MaxAttempts; attempt++ {
		var v T
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil || !IsTransient(err) || attempt == b.MaxAttempts-1 {
			return zero, err
		}

		zap.L().Warn("resilience: retrying provider call",
			zap.String("provider", provider),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		t := time.NewTimer(b.delay(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, err
		case <-t.C:
		}
	}
	return zero, err
}
