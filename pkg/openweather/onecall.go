package openweather

import (
	"context"
	"net/url"
	"strconv"
)

// OneCall fetches the forecast for a coordinate pair, excluding minutely data.
func (c *httpClient) OneCall(ctx context.Context, lat, lon float64) (*OneCallResponse, error) {
	params := url.Values{
		"lat":     {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":     {strconv.FormatFloat(lon, 'f', -1, 64)},
		"units":   {"metric"},
		"exclude": {"minutely"},
	}

	var out OneCallResponse
	if err := c.get(ctx, "/data/2.5/onecall", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
