package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Library.Driver)
	assert.Equal(t, "./data/as.db", cfg.Library.Path)

	assert.Equal(t, 1000, cfg.Engine.DefaultTopN)
	assert.InDelta(t, 1.1, cfg.Engine.ClickBoost, 1e-12)
	assert.InDelta(t, 0.95, cfg.Engine.Decay, 1e-12)
	assert.Equal(t, "1705", cfg.Engine.RecentPrefix)
	assert.False(t, cfg.Engine.ContentWeightForCF)
	assert.Equal(t, 15*time.Minute, cfg.Engine.CacheTTL)

	assert.InDelta(t, 1.0, cfg.Engine.BootstrapWeights.Content, 1e-12)
	assert.InDelta(t, 1.0, cfg.Engine.BootstrapWeights.CF, 1e-12)
	assert.InDelta(t, 0.1, cfg.Engine.BootstrapWeights.Recency, 1e-12)

	assert.Equal(t, 200, cfg.Producers.ContentCandidates)
	assert.Equal(t, 300, cfg.Producers.MaxNeighbors)
	assert.Equal(t, []string{"170", "160"}, cfg.Producers.RecentPrefixes)

	// Optional subsystems default to off.
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Kafka.Brokers)
}
