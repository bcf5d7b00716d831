// Package assistant answers free-form farming questions.
package assistant

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agronomy-cli/internal/cost"
	"github.com/sells-group/agronomy-cli/internal/resilience"
	"github.com/sells-group/agronomy-cli/pkg/anthropic"
)

// UnavailableMessage is returned when no model backend is configured.
const UnavailableMessage = "Chat functionality is currently not available as it requires AI assistant integration. " +
	"Please check back later or contact support for more information."

const defaultSystemPrompt = "You are an agronomy assistant for smallholder farmers in India. " +
	"Answer briefly and practically. Give fertilizer quantities in kg/hectare. " +
	"When unsure, recommend a soil test or the local Krishi Vigyan Kendra."

// ErrEmptyMessage is returned for blank questions.
var ErrEmptyMessage = eris.New("assistant: message cannot be empty")

// Config tunes model calls.
type Config struct {
	Model        string
	MaxTokens    int64
	SystemPrompt string
	// MaxHistory bounds how many prior turns are sent with a question.
	MaxHistory int
	// Costs, when set, records the price of every model call.
	Costs *cost.Calculator
}

// Turn is one prior exchange message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Answer is the assistant's reply. Available is false when the reply is
// UnavailableMessage.
type Answer struct {
	Text      string  `json:"text"`
	Available bool    `json:"available"`
	Model     string  `json:"model,omitempty"`
	CostUSD   float64 `json:"cost_usd,omitempty"`
}

// Assistant wraps an Anthropic client behind a resilience guard.
type Assistant struct {
	client anthropic.Client
	guard  *resilience.Guard
	cfg    Config
}

// New creates an Assistant. A nil client makes every answer the
// unavailable message.
func New(client anthropic.Client, guard *resilience.Guard, cfg Config) *Assistant {
	if cfg.Model == "" {
		cfg.Model = "claude-haiku-4-5-20251001"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 10
	}
	return &Assistant{client: client, guard: guard, cfg: cfg}
}

// Available reports whether a model backend is configured.
func (a *Assistant) Available() bool {
	return a != nil && a.client != nil
}

// Ask answers message, continuing from history.
func (a *Assistant) Ask(ctx context.Context, message string, history []Turn) (*Answer, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if !a.Available() {
		return &Answer{Text: UnavailableMessage}, nil
	}

	req := anthropic.MessageRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		System:    a.cfg.SystemPrompt,
		Messages:  a.messages(message, history),
	}

	resp, err := resilience.Call(ctx, a.guard, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return a.client.CreateMessage(ctx, req)
	})
	if err != nil {
		zap.L().Warn("assistant: model call failed", zap.Error(err))
		return nil, eris.Wrap(err, "assistant: ask")
	}
	resp.Usage.Log(resp.Model, "chat")

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, eris.New("assistant: empty reply")
	}
	ans := &Answer{Text: text, Available: true, Model: resp.Model}
	if a.cfg.Costs != nil {
		ans.CostUSD = a.cfg.Costs.Record(resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	return ans, nil
}

func (a *Assistant) messages(message string, history []Turn) []anthropic.Message {
	if len(history) > a.cfg.MaxHistory {
		history = history[len(history)-a.cfg.MaxHistory:]
	}
	out := make([]anthropic.Message, 0, len(history)+1)
	for _, t := range history {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		role := "user"
		if strings.EqualFold(t.Role, "assistant") {
			role = "assistant"
		}
		// The API rejects consecutive turns from the same role.
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + content
			continue
		}
		out = append(out, anthropic.Message{Role: role, Content: content})
	}
	if n := len(out); n > 0 && out[n-1].Role == "user" {
		out[n-1].Content += "\n\n" + message
		return out
	}
	return append(out, anthropic.Message{Role: "user", Content: message})
}
