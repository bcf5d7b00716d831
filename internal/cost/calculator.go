// Package cost prices model usage and keeps a running spend total.
package cost

import "sync"

// Rates holds per-model pricing.
type Rates struct {
	Anthropic map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Spend is a running usage total.
type Spend struct {
	Calls        int     `json:"calls"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	USD          float64 `json:"usd"`
}

// Calculator computes costs for model calls and accumulates them. It is safe
// for concurrent use.
type Calculator struct {
	rates Rates

	mu    sync.Mutex
	spend Spend
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Price returns the cost of one call without recording it. Unknown models
// cost 0.
func (c *Calculator) Price(model string, input, output int64) float64 {
	rate, ok := c.rates.Anthropic[model]
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// Record prices a call and adds it to the running total.
func (c *Calculator) Record(model string, input, output int64) float64 {
	usd := c.Price(model, input, output)

	c.mu.Lock()
	c.spend.Calls++
	c.spend.InputTokens += input
	c.spend.OutputTokens += output
	c.spend.USD += usd
	c.mu.Unlock()

	return usd
}

// Total returns the spend recorded so far.
func (c *Calculator) Total() Spend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spend
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
			"claude-opus-4-6":            {Input: 15.00, Output: 75.00},
		},
	}
}
