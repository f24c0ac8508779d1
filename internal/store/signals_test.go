package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxrec/arxrec/internal/config"
)

func writeTestBlob(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testSignalConfig(t *testing.T, content, cf, recency string) config.StoreConfig {
	t.Helper()
	dir := t.TempDir()
	return config.StoreConfig{
		ContentScorePath: writeTestBlob(t, dir, "svm_score.json", content),
		CFScorePath:      writeTestBlob(t, dir, "cf_score.json", cf),
		RecencyScorePath: writeTestBlob(t, dir, "time_score.json", recency),
	}
}

func TestSignalStore_Load(t *testing.T) {
	cfg := testSignalConfig(t,
		`{"u1": {"1705.00001v2": 0.9, "1604.11111": 0.2}}`,
		`{"u1": {"1604.11111": 0.5}}`,
		`{"1705.00001v3": 0.8}`,
	)

	s := NewSignalStore(cfg, testLogger())
	require.NoError(t, s.Load())

	t.Run("identifiers normalized at the boundary", func(t *testing.T) {
		content := s.ContentScores("u1")
		assert.InDelta(t, 0.9, content["1705.00001"], 1e-12)
		_, versioned := content["1705.00001v2"]
		assert.False(t, versioned)

		assert.InDelta(t, 0.8, s.RecencyScores()["1705.00001"], 1e-12)
	})

	t.Run("unknown user yields empty maps", func(t *testing.T) {
		assert.Empty(t, s.ContentScores("ghost"))
		assert.Empty(t, s.CFScores("ghost"))
	})
}

func TestSignalStore_MissingBlobIsFatal(t *testing.T) {
	cfg := testSignalConfig(t, `{}`, `{}`, `{}`)
	cfg.CFScorePath = filepath.Join(t.TempDir(), "absent.json")

	s := NewSignalStore(cfg, testLogger())
	err := s.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "cf score store")
}

func TestSignalStore_MalformedBlobRejected(t *testing.T) {
	t.Run("wrong shape", func(t *testing.T) {
		cfg := testSignalConfig(t, `{"u1": {"p": "high"}}`, `{}`, `{}`)
		s := NewSignalStore(cfg, testLogger())
		assert.Error(t, s.Load())
	})

	t.Run("truncated json", func(t *testing.T) {
		cfg := testSignalConfig(t, `{"u1": {`, `{}`, `{}`)
		s := NewSignalStore(cfg, testLogger())
		assert.Error(t, s.Load())
	})
}

func TestSignalStore_Reload(t *testing.T) {
	cfg := testSignalConfig(t, `{"u1": {"a": 0.1}}`, `{}`, `{}`)
	s := NewSignalStore(cfg, testLogger())
	require.NoError(t, s.Load())

	before := s.ContentScores("u1")

	// Offline producer rewrites the blob; reload swaps it in as a unit.
	require.NoError(t, os.WriteFile(cfg.ContentScorePath, []byte(`{"u1": {"b": 0.7}}`), 0o644))
	require.NoError(t, s.Reload())

	assert.InDelta(t, 0.7, s.ContentScores("u1")["b"], 1e-12)

	// Snapshot taken before the reload is untouched.
	assert.InDelta(t, 0.1, before["a"], 1e-12)
	_, ok := before["b"]
	assert.False(t, ok)
}
