package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SURVIVE_IT_CATALOG", "SURVIVE_IT_DB", "SURVIVE_IT_SEED", "SURVIVE_IT_STEPS", "SURVIVE_IT_LOG_LEVEL"} {
		// Setenv registers the restore, Unsetenv clears it for this test.
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "", c.CatalogPath)
	assert.Equal(t, "survive-it.db", c.DBPath)
	assert.Equal(t, int64(0), c.Seed)
	assert.Equal(t, 40, c.Steps)
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SURVIVE_IT_CATALOG", "/tmp/mutations.yaml")
	t.Setenv("SURVIVE_IT_DB", "/tmp/chars.db")
	t.Setenv("SURVIVE_IT_SEED", "1234")
	t.Setenv("SURVIVE_IT_STEPS", "12")
	t.Setenv("SURVIVE_IT_LOG_LEVEL", "DEBUG")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mutations.yaml", c.CatalogPath)
	assert.Equal(t, "/tmp/chars.db", c.DBPath)
	assert.Equal(t, int64(1234), c.Seed)
	assert.Equal(t, 12, c.Steps)
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())
}

func TestLoadRejectsBadSeed(t *testing.T) {
	t.Setenv("SURVIVE_IT_SEED", "not-a-number")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	valid := Config{DBPath: "x.db", Steps: 10, LogLevel: "warn"}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid"},
		{name: "empty db", mutate: func(c *Config) { c.DBPath = " " }, wantErr: "database path"},
		{name: "zero steps", mutate: func(c *Config) { c.Steps = 0 }, wantErr: "steps must be"},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "invalid log level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			if tc.mutate != nil {
				tc.mutate(&c)
			}
			err := c.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
