package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-intel/internal/config"
)

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.CacheConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestNewDefaultsToSQLite(t *testing.T) {
	cfg := config.CacheConfig{SQLitePath: filepath.Join(t.TempDir(), "profiles.db")}
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.(*SQLiteStore)
	assert.True(t, ok)
}
