package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/agronomy-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS feedback (
	id         TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	client_ip  TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS geocode_cache (
	key        TEXT PRIMARY KEY,
	location   TEXT,
	cached_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);
CREATE INDEX IF NOT EXISTS idx_geocode_cache_expires_at ON geocode_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveFeedback(ctx context.Context, payload json.RawMessage, clientIP string) (*model.Feedback, error) {
	if !json.Valid(payload) {
		return nil, eris.New("sqlite: feedback payload is not valid JSON")
	}
	fb := &model.Feedback{
		ID:        uuid.New().String(),
		Payload:   payload,
		ClientIP:  clientIP,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, payload, client_ip, created_at) VALUES (?, ?, ?, ?)`,
		fb.ID, string(payload), clientIP, fb.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert feedback")
	}
	return fb, nil
}

func (s *SQLiteStore) ListFeedback(ctx context.Context, limit int) ([]model.Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload, client_ip, created_at FROM feedback
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list feedback")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Feedback
	for rows.Next() {
		var (
			fb      model.Feedback
			payload string
		)
		if err := rows.Scan(&fb.ID, &payload, &fb.ClientIP, &fb.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan feedback")
		}
		fb.Payload = json.RawMessage(payload)
		out = append(out, fb)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate feedback")
}

func (s *SQLiteStore) GetCachedGeocode(ctx context.Context, key string) (*GeocodeEntry, error) {
	var (
		loc       sql.NullString
		cachedAt  time.Time
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT location, cached_at, expires_at FROM geocode_cache
		 WHERE key = ? AND expires_at > ?`,
		key, time.Now().Unix(),
	).Scan(&loc, &cachedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get cached geocode")
	}

	entry := &GeocodeEntry{
		Key:       key,
		CachedAt:  cachedAt,
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
	}
	if loc.Valid {
		entry.Location, err = unmarshalLocation([]byte(loc.String))
		if err != nil {
			return nil, err
		}
		entry.Found = entry.Location != nil
	}
	return entry, nil
}

func (s *SQLiteStore) SetCachedGeocode(ctx context.Context, key string, loc *model.Location, ttl time.Duration) error {
	data, err := marshalLocation(loc)
	if err != nil {
		return err
	}
	var locVal any
	if data != nil {
		locVal = string(data)
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (key, location, cached_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET location = excluded.location,
		   cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		key, locVal, now, now.Add(ttl).Unix(),
	)
	return eris.Wrap(err, "sqlite: set cached geocode")
}

func (s *SQLiteStore) DeleteExpiredGeocodes(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM geocode_cache WHERE expires_at <= ?`, time.Now().Unix(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired geocodes")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}
