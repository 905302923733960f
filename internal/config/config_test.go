package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name: "valid config",
			modify: func(c *Config) {
				c.Builder.Workers = 2
				c.Builder.ExtraArgs = `--verbose --tag "release build"`
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 2, c.Builder.Workers)
			},
		},
		{
			name: "workers below minimum defaults to 1",
			modify: func(c *Config) {
				c.Builder.Workers = 0
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultBuilderWorkers, c.Builder.Workers)
			},
		},
		{
			name: "probe timeout below minimum defaults to 10s",
			modify: func(c *Config) {
				c.Builder.ProbeTimeout = 100 * time.Millisecond
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultProbeTimeout, c.Builder.ProbeTimeout)
			},
		},
		{
			name: "cache TTL below minimum defaults to a week",
			modify: func(c *Config) {
				c.Cache.TTL = 30 * time.Second
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultCacheTTL, c.Cache.TTL)
			},
		},
		{
			name: "max entries below minimum defaults to 5000",
			modify: func(c *Config) {
				c.Display.MaxEntries = -1
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultMaxEntries, c.Display.MaxEntries)
			},
		},
		{
			name: "blank base name defaults to data",
			modify: func(c *Config) {
				c.Output.BaseName = "  "
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultBaseName, c.Output.BaseName)
			},
		},
		{
			name: "unknown log format defaults to pretty",
			modify: func(c *Config) {
				c.Logging.Format = "xml"
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultLogFormat, c.Logging.Format)
			},
		},
		{
			name: "unterminated quote in extra args",
			modify: func(c *Config) {
				c.Builder.ExtraArgs = `--tag "oops`
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestBuilderConfig_Args(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"plain", "--a --b", []string{"--a", "--b"}},
		{"quoted", `--name "two words" 'x y'`, []string{"--name", "two words", "x y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuilderConfig{ExtraArgs: tt.input}.Args()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultBuilderWorkers, cfg.Builder.Workers)
	assert.Equal(t, DefaultProbeTimeout, cfg.Builder.ProbeTimeout)
	assert.False(t, cfg.Resolver.AllowOverrides)
	assert.Equal(t, DefaultBaseName, cfg.Output.BaseName)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, CacheDir(), cfg.Cache.Directory)
	assert.Equal(t, DefaultMaxEntries, cfg.Display.MaxEntries)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".treefile"), ConfigDir())
	assert.Equal(t, filepath.Join(home, ".treefile", "cache"), CacheDir())
	assert.Equal(t, filepath.Join(home, ".treefile", "config.yaml"), ConfigFilePath())
}

// TestEnsureDirs tests creating config and cache directories
func TestEnsureDirs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, EnsureConfigDir())
	require.NoError(t, EnsureCacheDir())

	for _, dir := range []string{ConfigDir(), CacheDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

// TestLoad_LoadWithMissingConfig tests loading with no config file
func TestLoad_LoadWithMissingConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, v, err := LoadWithViper()
	require.NoError(t, err)
	assert.NotNil(t, v)

	assert.Equal(t, DefaultBuilderWorkers, cfg.Builder.Workers)
	assert.Equal(t, DefaultMaxEntries, cfg.Display.MaxEntries)
	assert.Equal(t, CacheDir(), cfg.Cache.Directory)
}

// TestLoad_WithInvalidConfigFile tests loading with invalid config file
func TestLoad_WithInvalidConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("invalid: yaml: content: ["), 0644))
	t.Chdir(dir)

	cfg, _, err := LoadWithViper()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

// TestLoad_WithValidConfigFile tests loading with valid config file
func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	content := `
builder:
  path: /opt/tools/TreeFileBuilder
  extra_args: "--verbose"
  workers: 3
resolver:
  allow_overrides: true
  exclude: ["*.bak"]
output:
  compress: true
logging:
  level: "debug"
display:
  max_entries: 100
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	t.Chdir(dir)

	cfg, _, err := LoadWithViper()
	require.NoError(t, err)

	assert.Equal(t, "/opt/tools/TreeFileBuilder", cfg.Builder.Path)
	assert.Equal(t, 3, cfg.Builder.Workers)
	assert.True(t, cfg.Resolver.AllowOverrides)
	assert.Equal(t, []string{"*.bak"}, cfg.Resolver.Exclude)
	assert.True(t, cfg.Output.Compress)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 100, cfg.Display.MaxEntries)

	args, err := cfg.Builder.Args()
	require.NoError(t, err)
	assert.Equal(t, []string{"--verbose"}, args)
}

// TestLoadWithEnvironmentVariable tests loading with environment variable
func TestLoadWithEnvironmentVariable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TREEFILE_BUILDER_PATH", "/env/TreeFileBuilder")
	t.Chdir(t.TempDir())

	cfg, _, err := LoadWithViper()
	require.NoError(t, err)
	assert.Equal(t, "/env/TreeFileBuilder", cfg.Builder.Path)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TREEFILE_OUTPUT_BASE_NAME=fromdotenv\n"), 0644))
	t.Chdir(dir)
	// godotenv sets the variable on the process; restore it afterwards
	t.Setenv("TREEFILE_OUTPUT_BASE_NAME", "")
	require.NoError(t, os.Unsetenv("TREEFILE_OUTPUT_BASE_NAME"))

	cfg, _, err := LoadWithViper()
	require.NoError(t, err)
	assert.Equal(t, "fromdotenv", cfg.Output.BaseName)
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

// TestConstants tests constant values
func TestConstants(t *testing.T) {
	assert.Equal(t, 1, DefaultBuilderWorkers)
	assert.Equal(t, 5000, DefaultMaxEntries)
	assert.Greater(t, DefaultProbeTimeout, time.Second)
	assert.Greater(t, DefaultCacheTTL, time.Minute)
	assert.Equal(t, "TREEFILE", EnvPrefix)
}

func TestLoadFrom_ExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  base_name: bundle\n"), 0644))

	cfg, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "bundle", cfg.Output.BaseName)

	_, err = LoadFrom(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg := Default()
	cfg.Builder.Workers = 4
	cfg.Builder.ExtraArgs = `--tag "a b"`
	cfg.Resolver.Exclude = []string{"*.bak", "tmp/"}
	cfg.Cache.TTL = 48 * time.Hour

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Builder.Workers)
	assert.Equal(t, cfg.Builder.ExtraArgs, loaded.Builder.ExtraArgs)
	assert.Equal(t, cfg.Resolver.Exclude, loaded.Resolver.Exclude)
	assert.Equal(t, 48*time.Hour, loaded.Cache.TTL)
}
