package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint64(3), cfg.MaxFailures)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 5*time.Minute, cfg.ExprCacheExpiration)
	assert.Equal(t, 100.0, cfg.ExprRateLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_FAILURES", "10")
	t.Setenv("TICK_INTERVAL", "500ms")
	t.Setenv("EXPR_RATE_LIMIT", "25")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint64(10), cfg.MaxFailures)
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 25.0, cfg.ExprRateLimit)
}

func TestInvalidEnvFallsBackToDefaults(t *testing.T) {
	t.Setenv("MAX_FAILURES", "not-a-number")
	t.Setenv("TICK_INTERVAL", "soon")

	cfg := Load()

	assert.Equal(t, uint64(3), cfg.MaxFailures)
	assert.Equal(t, time.Second, cfg.TickInterval)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "not-a-port" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"zero max failures", func(c *Config) { c.MaxFailures = 0 }},
		{"zero tick interval", func(c *Config) { c.TickInterval = 0 }},
		{"zero cache expiration", func(c *Config) { c.ExprCacheExpiration = 0 }},
		{"zero rate limit", func(c *Config) { c.ExprRateLimit = 0 }},
		{"missing definitions file", func(c *Config) { c.TriggerDefinitions = "/nonexistent/triggers.yaml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsExistingDefinitionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("triggers: []\n"), 0644))

	cfg := Load()
	cfg.TriggerDefinitions = path
	assert.NoError(t, cfg.Validate())
}
