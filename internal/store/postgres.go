package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/agronomy-cli/internal/db"
	"github.com/sells-group/agronomy-cli/internal/model"
)

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres connects to Postgres and returns a store backed by the pool.
func NewPostgres(ctx context.Context, connString string, cfg *db.PoolConfig) (*PostgresStore, error) {
	if connString == "" {
		return nil, eris.New("postgres: database_url is required")
	}
	pool, err := db.Connect(ctx, connString, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. The caller owns its lifetime.
func NewPostgresFromPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS feedback (
	id         TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	client_ip  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS geocode_cache (
	key        TEXT PRIMARY KEY,
	location   JSONB,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_geocode_cache_expires_at ON geocode_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveFeedback(ctx context.Context, payload json.RawMessage, clientIP string) (*model.Feedback, error) {
	if !json.Valid(payload) {
		return nil, eris.New("postgres: feedback payload is not valid JSON")
	}
	fb := &model.Feedback{
		ID:        uuid.New().String(),
		Payload:   payload,
		ClientIP:  clientIP,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO feedback (id, payload, client_ip, created_at) VALUES ($1, $2, $3, $4)`,
		fb.ID, []byte(payload), clientIP, fb.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert feedback")
	}
	return fb, nil
}

func (s *PostgresStore) ListFeedback(ctx context.Context, limit int) ([]model.Feedback, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, payload, client_ip, created_at FROM feedback
		 ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list feedback")
	}
	defer rows.Close()

	var out []model.Feedback
	for rows.Next() {
		var (
			fb      model.Feedback
			payload []byte
		)
		if err := rows.Scan(&fb.ID, &payload, &fb.ClientIP, &fb.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan feedback")
		}
		fb.Payload = json.RawMessage(payload)
		out = append(out, fb)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate feedback")
}

func (s *PostgresStore) GetCachedGeocode(ctx context.Context, key string) (*GeocodeEntry, error) {
	var (
		loc   []byte
		entry = GeocodeEntry{Key: key}
	)
	err := s.pool.QueryRow(ctx,
		`SELECT location, cached_at, expires_at FROM geocode_cache
		 WHERE key = $1 AND expires_at > now()`,
		key,
	).Scan(&loc, &entry.CachedAt, &entry.ExpiresAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get cached geocode")
	}

	entry.Location, err = unmarshalLocation(loc)
	if err != nil {
		return nil, err
	}
	entry.Found = entry.Location != nil
	return &entry, nil
}

func (s *PostgresStore) SetCachedGeocode(ctx context.Context, key string, loc *model.Location, ttl time.Duration) error {
	data, err := marshalLocation(loc)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO geocode_cache (key, location, cached_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE SET location = $2, cached_at = $3, expires_at = $4`,
		key, data, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: set cached geocode")
}

func (s *PostgresStore) DeleteExpiredGeocodes(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM geocode_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired geocodes")
	}
	return int(tag.RowsAffected()), nil
}
