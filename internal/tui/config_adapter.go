package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quantmind-br/treefile-go/internal/config"
)

// ConfigValues holds form values that map to Config struct.
// Numeric and duration fields are stored as strings for form editing.
type ConfigValues struct {
	BuilderPath  string
	ExtraArgs    string
	ProbeTimeout string
	Workers      string

	AllowOverrides  bool
	ExcludePatterns string

	OutputDirectory string
	BaseName        string
	Compress        bool

	CacheEnabled   bool
	CacheTTL       string
	CacheDirectory string

	LogLevel  string
	LogFormat string

	MaxEntries string
}

// FromConfig converts a Config to ConfigValues for form editing. A nil cfg
// yields the defaults.
func FromConfig(cfg *config.Config) *ConfigValues {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ConfigValues{
		BuilderPath:  cfg.Builder.Path,
		ExtraArgs:    cfg.Builder.ExtraArgs,
		ProbeTimeout: formatDuration(cfg.Builder.ProbeTimeout),
		Workers:      strconv.Itoa(cfg.Builder.Workers),

		AllowOverrides:  cfg.Resolver.AllowOverrides,
		ExcludePatterns: strings.Join(cfg.Resolver.Exclude, "\n"),

		OutputDirectory: cfg.Output.Directory,
		BaseName:        cfg.Output.BaseName,
		Compress:        cfg.Output.Compress,

		CacheEnabled:   cfg.Cache.Enabled,
		CacheTTL:       formatDuration(cfg.Cache.TTL),
		CacheDirectory: cfg.Cache.Directory,

		LogLevel:  cfg.Logging.Level,
		LogFormat: cfg.Logging.Format,

		MaxEntries: strconv.Itoa(cfg.Display.MaxEntries),
	}
}

// ToConfig converts ConfigValues back to a validated Config
func (v *ConfigValues) ToConfig() (*config.Config, error) {
	workers, err := parseIntOrDefault(v.Workers, config.DefaultBuilderWorkers)
	if err != nil {
		return nil, fmt.Errorf("invalid workers: %w", err)
	}

	probeTimeout, err := parseDurationOrDefault(v.ProbeTimeout, config.DefaultProbeTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid probe_timeout: %w", err)
	}

	cacheTTL, err := parseDurationOrDefault(v.CacheTTL, config.DefaultCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache_ttl: %w", err)
	}

	maxEntries, err := parseIntOrDefault(v.MaxEntries, config.DefaultMaxEntries)
	if err != nil {
		return nil, fmt.Errorf("invalid max_entries: %w", err)
	}

	cfg := &config.Config{
		Builder: config.BuilderConfig{
			Path:         strings.TrimSpace(v.BuilderPath),
			ExtraArgs:    v.ExtraArgs,
			ProbeTimeout: probeTimeout,
			Workers:      workers,
		},
		Resolver: config.ResolverConfig{
			AllowOverrides: v.AllowOverrides,
			Exclude:        splitLines(v.ExcludePatterns),
		},
		Output: config.OutputConfig{
			Directory: v.OutputDirectory,
			BaseName:  v.BaseName,
			Compress:  v.Compress,
		},
		Cache: config.CacheConfig{
			Enabled:   v.CacheEnabled,
			TTL:       cacheTTL,
			Directory: v.CacheDirectory,
		},
		Logging: config.LoggingConfig{
			Level:  v.LogLevel,
			Format: v.LogFormat,
		},
		Display: config.DisplayConfig{
			MaxEntries: maxEntries,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func parseDurationOrDefault(s string, defaultVal time.Duration) (time.Duration, error) {
	if s == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(s)
}

func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}
