package config

import (
	"fmt"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"
)

// Config represents the application configuration
type Config struct {
	Builder  BuilderConfig  `mapstructure:"builder" yaml:"builder"`
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
}

// BuilderConfig contains TreeFileBuilder settings
type BuilderConfig struct {
	// Path overrides executable discovery
	Path string `mapstructure:"path" yaml:"path"`
	// ExtraArgs is a shell-quoted string appended to every build
	ExtraArgs    string        `mapstructure:"extra_args" yaml:"extra_args"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
	// Workers bounds concurrent builds during generate
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// ResolverConfig contains overlay settings
type ResolverConfig struct {
	AllowOverrides bool     `mapstructure:"allow_overrides" yaml:"allow_overrides"`
	Exclude        []string `mapstructure:"exclude" yaml:"exclude"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	BaseName  string `mapstructure:"base_name" yaml:"base_name"`
	// Compress also writes a zstd copy of every response file
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// CacheConfig contains capability cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DisplayConfig contains tree display settings
type DisplayConfig struct {
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries"`
}

// Validate validates the configuration, replacing out-of-range values with
// defaults
func (c *Config) Validate() error {
	if c.Builder.Workers < 1 {
		c.Builder.Workers = DefaultBuilderWorkers
	}
	if c.Builder.ProbeTimeout < time.Second {
		c.Builder.ProbeTimeout = DefaultProbeTimeout
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Display.MaxEntries < 1 {
		c.Display.MaxEntries = DefaultMaxEntries
	}
	if strings.TrimSpace(c.Output.BaseName) == "" {
		c.Output.BaseName = DefaultBaseName
	}
	switch c.Logging.Format {
	case "pretty", "json":
	default:
		c.Logging.Format = DefaultLogFormat
	}

	if _, err := c.Builder.Args(); err != nil {
		return fmt.Errorf("invalid builder.extra_args: %w", err)
	}
	return nil
}

// Args splits ExtraArgs using shell quoting rules
func (b BuilderConfig) Args() ([]string, error) {
	if strings.TrimSpace(b.ExtraArgs) == "" {
		return nil, nil
	}
	return shell.Fields(b.ExtraArgs, nil)
}
