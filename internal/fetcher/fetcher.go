// Package fetcher opens soil dataset sources from local paths or HTTP(S) URLs.
package fetcher

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher downloads remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// IsRemote reports whether location is an HTTP(S) URL.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Open returns a reader for location. URLs go through f; anything else is
// treated as a local path.
func Open(ctx context.Context, f Fetcher, location string) (io.ReadCloser, error) {
	if IsRemote(location) {
		if f == nil {
			return nil, eris.Errorf("fetcher: no http fetcher for %s", location)
		}
		return f.Download(ctx, location)
	}

	file, err := os.Open(location)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", location)
	}
	return file, nil
}
