// Package store persists farmer feedback and cached geocoding results.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agronomy-cli/internal/model"
)

// Store is the persistence interface shared by the SQLite and Postgres
// backends.
type Store interface {
	// Feedback
	SaveFeedback(ctx context.Context, payload json.RawMessage, clientIP string) (*model.Feedback, error)
	ListFeedback(ctx context.Context, limit int) ([]model.Feedback, error)

	// Geocode cache. A nil entry with a nil error is a cache miss.
	GetCachedGeocode(ctx context.Context, key string) (*GeocodeEntry, error)
	SetCachedGeocode(ctx context.Context, key string, loc *model.Location, ttl time.Duration) error
	DeleteExpiredGeocodes(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// GeocodeEntry is a cached geocoding result. Found is false for a cached
// negative lookup.
type GeocodeEntry struct {
	Key       string          `json:"key"`
	Location  *model.Location `json:"location,omitempty"`
	Found     bool            `json:"found"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// DefaultFeedbackLimit bounds ListFeedback when the caller passes zero.
const DefaultFeedbackLimit = 50

// GeocodeKey returns the cache key for a geocoding query: a hash of the
// lower-cased, whitespace-collapsed query and state.
func GeocodeKey(query, state string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(query)), " ") +
		"|" + strings.Join(strings.Fields(strings.ToLower(state)), " ")
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:])
}

// Config selects and configures a backend.
type Config struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Open creates the configured store and runs its migration. Supported
// drivers are "sqlite" (default) and "postgres".
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		st  Store
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "agronomy.db"
		}
		st, err = NewSQLite(dsn)
	case "postgres", "postgresql":
		st, err = NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultFeedbackLimit
	}
	return limit
}

func marshalLocation(loc *model.Location) ([]byte, error) {
	if loc == nil {
		return nil, nil
	}
	data, err := json.Marshal(loc)
	return data, eris.Wrap(err, "store: marshal location")
}

func unmarshalLocation(data []byte) (*model.Location, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var loc model.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal location")
	}
	return &loc, nil
}
