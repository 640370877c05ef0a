package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .snip/).
	userConfigFile = ".snipconfig.yaml"
	// dotEnvFile is read for SNIP_ variables before the process environment.
	dotEnvFile = ".env"
	// envPrefix marks environment variables that override config keys.
	envPrefix = "SNIP_"

	// Default configuration values
	DefaultBackend      = BackendFile
	DefaultLogLevel     = "warn"
	DefaultDefaultGroup = ""
	DefaultFuzzy        = false
)

// Config represents user configuration from .snipconfig.yaml.
// This file is user-managed and never written by snip.
type Config struct {
	// Backend is used by `snip init` when --backend is not given.
	Backend Backend `koanf:"backend"`

	// QuotaBytes caps the stored blob size. 0 disables the check.
	QuotaBytes int `koanf:"quota_bytes"`

	// LogLevel is a zerolog level name.
	LogLevel string `koanf:"log_level"`

	// DefaultGroup is the group name for `snip add` when -g not specified.
	DefaultGroup string `koanf:"default_group"`

	// Fuzzy switches `snip find` and `snip expand` to fuzzy ranking.
	Fuzzy bool `koanf:"fuzzy"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend:      DefaultBackend,
		QuotaBytes:   DefaultQuotaBytes,
		LogLevel:     DefaultLogLevel,
		DefaultGroup: DefaultDefaultGroup,
		Fuzzy:        DefaultFuzzy,
	}
}

// LoadConfig layers defaults, .snipconfig.yaml, SNIP_ variables from .env
// and the process environment, in that order. root is the directory holding
// .snip/; missing files are skipped.
func LoadConfig(root string) (*Config, error) {
	k := koanf.New(".")

	def := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"backend":       string(def.Backend),
		"quota_bytes":   def.QuotaBytes,
		"log_level":     def.LogLevel,
		"default_group": def.DefaultGroup,
		"fuzzy":         def.Fuzzy,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := filepath.Join(root, userConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), kyaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", userConfigFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", userConfigFile, err)
	}

	envPath := filepath.Join(root, dotEnvFile)
	if _, err := os.Stat(envPath); err == nil {
		vars, err := godotenv.Read(envPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", dotEnvFile, err)
		}
		overrides := map[string]interface{}{}
		for name, value := range vars {
			if strings.HasPrefix(name, envPrefix) {
				overrides[envKey(name)] = value
			}
		}
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes must not be negative (got %d)", c.QuotaBytes)
	}
	switch c.Backend {
	case BackendFile, BackendPebble:
	default:
		return fmt.Errorf("backend must be %q or %q (got %q)", BackendFile, BackendPebble, c.Backend)
	}
	return nil
}

// ConfigPath returns the path to the user config file.
func (w *Workspace) ConfigPath() string {
	return filepath.Join(w.root, userConfigFile)
}

// envKey maps SNIP_QUOTA_BYTES to quota_bytes.
func envKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, envPrefix))
}
