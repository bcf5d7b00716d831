// Package openweather provides a client for the OpenWeather direct geocoding
// and One Call forecast APIs.
package openweather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/agronomy-cli/internal/resilience"
)

const defaultBaseURL = "https://api.openweathermap.org"

// ErrNoMatch is returned by Geocode when the query resolves to no place.
var ErrNoMatch = eris.New("openweather: no geocoding match")

// Client defines the OpenWeather operations.
type Client interface {
	// Geocode resolves a place name, optionally qualified by state, to coordinates.
	Geocode(ctx context.Context, query, state string) (*Place, error)
	// OneCall fetches current conditions and the daily forecast in metric units.
	OneCall(ctx context.Context, lat, lon float64) (*OneCallResponse, error)
}

// Place is one direct-geocoding result.
type Place struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// OneCallResponse is the subset of the One Call payload the advisory uses.
type OneCallResponse struct {
	Timezone string   `json:"timezone"`
	Current  *Current `json:"current"`
	Daily    []Daily  `json:"daily"`
}

// Current holds current conditions. Fields absent from the payload stay nil.
type Current struct {
	Dt        int64    `json:"dt"`
	Temp      *float64 `json:"temp"`
	Humidity  *float64 `json:"humidity"`
	WindSpeed *float64 `json:"wind_speed"`
}

// Daily is one forecast day.
type Daily struct {
	Dt   int64 `json:"dt"`
	Temp struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	} `json:"temp"`
	PoP *float64 `json:"pop"`
}

// Option configures the OpenWeather client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithCountry sets the country code appended to geocoding queries.
func WithCountry(code string) Option {
	return func(c *httpClient) {
		c.country = code
	}
}

// WithRateLimit sets the requests-per-second limit shared by both endpoints.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	country string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an OpenWeather client. Free-tier keys allow 60 calls per
// minute, which is the default limit.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		country: "IN",
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(1, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "openweather: rate limit")
	}

	params.Set("appid", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "openweather: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "openweather: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "openweather: read body")
	}

	if resp.StatusCode != http.StatusOK {
		return resilience.FromStatus(
			eris.Errorf("openweather: unexpected status %d: %s", resp.StatusCode, truncate(body, 200)),
			resp.StatusCode,
		)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "openweather: parse response")
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
