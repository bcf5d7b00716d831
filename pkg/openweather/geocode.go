package openweather

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// Geocode resolves "query,state,country" via the direct geocoding endpoint
// and returns the first result. Blank parts are omitted from the query.
func (c *httpClient) Geocode(ctx context.Context, query, state string) (*Place, error) {
	query = strings.TrimSpace(query)
	state = strings.TrimSpace(state)
	if query == "" && state == "" {
		return nil, eris.New("openweather: empty geocoding query")
	}

	params := url.Values{
		"q":     {joinNonEmpty(query, state, c.country)},
		"limit": {"1"},
	}

	var places []Place
	if err := c.get(ctx, "/geo/1.0/direct", params, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, ErrNoMatch
	}
	return &places[0], nil
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
