package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, 2, c.Blocks())
	assert.Equal(t, "dfs", c.Strategy())
	assert.InDelta(t, 0.1, c.Imbalance(), 1e-9)
	assert.Equal(t, "none", c.Heuristic())
	assert.True(t, c.Dual())
	assert.Equal(t, "gophersat", c.Counter())
	assert.True(t, c.Verify())
	assert.Positive(t, c.Workers())
	assert.False(t, c.EnableAssignmentTracking())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hypercut.yaml")
	content := "partition:\n  blocks: 4\n  strategy: random\ncnf:\n  heuristic: mams\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c := NewConfig()
	require.NoError(t, c.LoadFromFile(path))
	assert.Equal(t, 4, c.Blocks())
	assert.Equal(t, "random", c.Strategy())
	assert.Equal(t, "mams", c.Heuristic())
	assert.Equal(t, zerolog.DebugLevel, c.CreateLogger().GetLevel())

	assert.Error(t, c.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestSetAndEnv(t *testing.T) {
	c := NewConfig()
	c.Set("partition.random_seed", int64(42))
	assert.Equal(t, int64(42), c.RandomSeed())

	t.Setenv("HYPERCUT_PARTITION_BLOCKS", "7")
	assert.Equal(t, 7, NewConfig().Blocks())

	c.Set("logging.level", "bogus")
	assert.Equal(t, zerolog.InfoLevel, c.CreateLogger().GetLevel())
}
