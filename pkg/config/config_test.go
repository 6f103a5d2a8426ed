package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvSchema, EnvStrict, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
default_schema: hotels
strict_mode: true
log_level: info
default_checkpoints: [search]
custom_checkpoints:
  - name: positive-total
    when: booking != nil
    assert: booking.bookingTotal > 0
    severity: error
    path: booking.bookingTotal
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hotels", cfg.DefaultSchema)
	assert.True(t, cfg.StrictMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"search"}, cfg.DefaultCheckpoints)
	require.Len(t, cfg.CustomCheckpoints, 1)
	assert.Equal(t, diagnose.SeverityError, cfg.CustomCheckpoints[0].Severity)
	assert.Equal(t, "booking.bookingTotal > 0", cfg.CustomCheckpoints[0].Assert)
}

func TestLoad_MissingDefaultUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "nope.yaml"))
	_, err = Load("")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_UnknownKey(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "default_schema: standard\nstrict: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict")
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "standard", cfg.DefaultSchema)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "default_schema: standard\nlog_level: error\n")
	t.Setenv(EnvSchema, "tealium://schema/ecommerce")
	t.Setenv(EnvStrict, "1")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tealium://schema/ecommerce", cfg.DefaultSchema)
	assert.True(t, cfg.StrictMode)
	assert.Equal(t, "debug", cfg.LogLevel)

	t.Setenv(EnvStrict, "maybe")
	_, err = Load(path)
	assert.ErrorContains(t, err, EnvStrict)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown schema", func(c *Config) { c.DefaultSchema = "retail" }, "default_schema"},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"missing name", func(c *Config) {
			c.CustomCheckpoints = []diagnose.CustomCheckpoint{{Assert: "true"}}
		}, "name is required"},
		{"shadows builtin", func(c *Config) {
			c.CustomCheckpoints = []diagnose.CustomCheckpoint{{Name: "Search", Assert: "true"}}
		}, "built-in"},
		{"duplicate", func(c *Config) {
			c.CustomCheckpoints = []diagnose.CustomCheckpoint{{Name: "a", Assert: "true"}, {Name: "A", Assert: "true"}}
		}, "duplicate"},
		{"missing assert", func(c *Config) {
			c.CustomCheckpoints = []diagnose.CustomCheckpoint{{Name: "a"}}
		}, "assert is required"},
		{"bad severity", func(c *Config) {
			c.CustomCheckpoints = []diagnose.CustomCheckpoint{{Name: "a", Assert: "true", Severity: "fatal"}}
		}, "severity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.StrictMode = true
	cfg.DefaultCheckpoints = []string{"loyalty"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
