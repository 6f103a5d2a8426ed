// Package config loads the YAML configuration shared by the MCP server and
// the CLI, with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

// AppName names the configuration directory.
const AppName = "tealium-mcp"

// Environment variables that override file values.
const (
	EnvConfig   = "TEALIUM_MCP_CONFIG"
	EnvSchema   = "TEALIUM_MCP_SCHEMA"
	EnvStrict   = "TEALIUM_MCP_STRICT"
	EnvLogLevel = "TEALIUM_MCP_LOG_LEVEL"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds user configuration.
type Config struct {
	DefaultSchema      string                      `yaml:"default_schema"`
	StrictMode         bool                        `yaml:"strict_mode"`
	LogLevel           string                      `yaml:"log_level"`
	DefaultCheckpoints []string                    `yaml:"default_checkpoints,omitempty"`
	CustomCheckpoints  []diagnose.CustomCheckpoint `yaml:"custom_checkpoints,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultSchema: schema.Standard,
		LogLevel:      "warn",
	}
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load reads the configuration. An explicit path (argument, then
// TEALIUM_MCP_CONFIG) must exist; the default path may be missing, in
// which case defaults apply. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	cfg := Default()
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := decode(f, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// decode parses YAML strictly, rejecting unknown keys.
func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvSchema)); v != "" {
		c.DefaultSchema = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStrict)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrict, err)
		}
		c.StrictMode = b
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	var errs []error
	if _, err := schema.Lookup(c.DefaultSchema); err != nil {
		errs = append(errs, fmt.Errorf("default_schema: %w", err))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level %q: use one of %s", c.LogLevel, strings.Join(logLevels, ", ")))
	}
	seen := map[string]bool{}
	for i, cp := range c.CustomCheckpoints {
		name := strings.ToLower(strings.TrimSpace(cp.Name))
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("custom_checkpoints[%d]: name is required", i))
		case slices.Contains(diagnose.BuiltinCheckpoints, name):
			errs = append(errs, fmt.Errorf("custom_checkpoints[%d]: %q shadows a built-in checkpoint", i, cp.Name))
		case seen[name]:
			errs = append(errs, fmt.Errorf("custom_checkpoints[%d]: duplicate name %q", i, cp.Name))
		}
		seen[name] = true
		if strings.TrimSpace(cp.Assert) == "" {
			errs = append(errs, fmt.Errorf("custom_checkpoints[%d]: assert is required", i))
		}
		switch cp.Severity {
		case "", diagnose.SeverityError, diagnose.SeverityWarning, diagnose.SeverityInfo:
		default:
			errs = append(errs, fmt.Errorf("custom_checkpoints[%d]: severity %q: use error, warning or info", i, cp.Severity))
		}
	}
	return errors.Join(errs...)
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return enc.Close()
}
