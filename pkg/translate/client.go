// Package translate provides a client for a LibreTranslate-compatible
// translation API.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/sells-group/agronomy-cli/internal/resilience"
)

// Client translates plain text.
type Client interface {
	// Translate renders text in the target language. Text already in the
	// source language is returned unchanged.
	Translate(ctx context.Context, text, target string) (string, error)
}

// Option configures the translate client.
type Option func(*httpClient)

// WithAPIKey sets the api_key sent with each request.
func WithAPIKey(key string) Option {
	return func(c *httpClient) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithSourceLanguage sets the language text is written in. Requests targeting
// it are answered locally. Default "en".
func WithSourceLanguage(lang string) Option {
	return func(c *httpClient) {
		c.source = Normalize(lang)
	}
}

type httpClient struct {
	baseURL string
	apiKey  string
	source  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for the LibreTranslate instance at baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		source:  "en",
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize reduces a BCP 47 tag such as "hi-IN" or "PA" to its lower-case
// base language. Unparseable input is returned lower-cased and trimmed.
func Normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	base, _ := tag.Base()
	return base.String()
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (c *httpClient) Translate(ctx context.Context, text, target string) (string, error) {
	target = Normalize(target)
	if target == "" || target == c.source || strings.TrimSpace(text) == "" {
		return text, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "translate: rate limit")
	}

	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: "auto",
		Target: target,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", eris.Wrap(err, "translate: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", eris.Wrap(err, "translate: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "translate: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "translate: read body")
	}

	var out translateResponse
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = string(body)
		}
		return "", resilience.FromStatus(
			eris.Errorf("translate: unexpected status %d: %s", resp.StatusCode, msg),
			resp.StatusCode,
		)
	}
	if out.TranslatedText == "" {
		return "", eris.New("translate: empty translation")
	}
	return out.TranslatedText, nil
}
