package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeKey_Normalizes(t *testing.T) {
	assert.Equal(t, GeocodeKey("Pune", "Maharashtra"), GeocodeKey("  pune ", "MAHARASHTRA"))
	assert.Equal(t, GeocodeKey("New  Delhi", ""), GeocodeKey("new delhi", ""))
	assert.NotEqual(t, GeocodeKey("Pune", ""), GeocodeKey("Pune", "Maharashtra"))
	assert.Len(t, GeocodeKey("x", ""), 64)
}

func TestOpen_SQLite(t *testing.T) {
	st, err := Open(context.Background(), Config{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "a.db")})
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	_, ok := st.(*SQLiteStore)
	assert.True(t, ok)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"})
	assert.ErrorContains(t, err, "unknown driver")
}

func TestOpen_PostgresRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "postgres"})
	assert.ErrorContains(t, err, "database_url is required")
}
