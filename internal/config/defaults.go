package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Builder defaults
	DefaultBuilderWorkers = 1
	DefaultProbeTimeout   = 10 * time.Second

	// Resolver defaults
	DefaultAllowOverrides = false

	// Output defaults
	DefaultBaseName = "data"
	DefaultCompress = false

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = 7 * 24 * time.Hour

	// Display defaults
	DefaultMaxEntries = 5000

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// EnvPrefix is the prefix of environment overrides (TREEFILE_*)
const EnvPrefix = "TREEFILE"

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".treefile"
	}
	return filepath.Join(home, ".treefile")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Builder: BuilderConfig{
			ProbeTimeout: DefaultProbeTimeout,
			Workers:      DefaultBuilderWorkers,
		},
		Resolver: ResolverConfig{
			AllowOverrides: DefaultAllowOverrides,
		},
		Output: OutputConfig{
			BaseName: DefaultBaseName,
			Compress: DefaultCompress,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Display: DisplayConfig{
			MaxEntries: DefaultMaxEntries,
		},
	}
}
