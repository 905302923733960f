package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewLoader(t *testing.T) {
	assert.NotNil(t, NewLoader())
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	p, err := NewLoader().Load("/nonexistent/path/build.yaml")

	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoader_Load_ValidYAML(t *testing.T) {
	t.Setenv(DefaultPassphraseEnv, "s3cret")

	path := writeProject(t, "build.yaml", `
entry_root: ./game
updates:
  - ./patch1
  - /abs/patch2
output_directory: dist
base_name: data
formats: [tre, TRES]
exclude:
  - "*.bak"
`)
	dir := filepath.Dir(path)

	p, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "game"), p.EntryRoot)
	assert.Equal(t, []string{filepath.Join(dir, "patch1"), filepath.Clean("/abs/patch2")}, p.Updates)
	assert.Equal(t, filepath.Join(dir, "dist"), p.OutputDirectory)
	assert.Equal(t, "data", p.BaseName)
	assert.Equal(t, []Format{FormatTRE, FormatTRES}, p.Formats)
	assert.Equal(t, []string{"*.bak"}, p.Exclude)
	assert.Equal(t, "s3cret", p.Passphrase)
	assert.True(t, p.Overrides())
}

func TestLoader_Load_ValidJSON(t *testing.T) {
	path := writeProject(t, "build.json", `{
		"entry_root": "game",
		"base_name": "data",
		"formats": ["tre"],
		"allow_overrides": false
	}`)
	dir := filepath.Dir(path)

	p, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "game"), p.EntryRoot)
	assert.Equal(t, dir, p.OutputDirectory)
	assert.False(t, p.Overrides())
	assert.Empty(t, p.Updates)
}

func TestLoader_Load_ValidTOML(t *testing.T) {
	t.Setenv("MY_PASS", "from-env")

	path := writeProject(t, "build.toml", `
entry_root = "game"
updates = ["patch"]
base_name = "bundle"
formats = ["tres"]
passphrase_env = "MY_PASS"
`)
	dir := filepath.Dir(path)

	p, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "game"), filepath.Join(dir, "patch")}, p.Roots())
	assert.Equal(t, "from-env", p.Passphrase)
	assert.Equal(t, filepath.Join(dir, "bundle.tres"), p.OutputPath(FormatTRES))
}

func TestLoader_Load_InvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"invalid yaml", "bad.yaml", "entry_root: [unclosed"},
		{"invalid json", "bad.json", `{"entry_root": `},
		{"invalid toml", "bad.toml", `entry_root = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(writeProject(t, tt.file, tt.content))
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestLoader_Load_UnsupportedExtension(t *testing.T) {
	_, err := NewLoader().Load(writeProject(t, "build.ini", "entry_root=x"))
	assert.ErrorIs(t, err, ErrUnsupportedExt)
}

func TestLoader_Load_ReadError(t *testing.T) {
	_, err := NewLoader().Load(t.TempDir())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFileNotFound)
}

func TestLoader_Validation(t *testing.T) {
	t.Setenv(DefaultPassphraseEnv, "")

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"missing entry root", `{"base_name": "data", "formats": ["tre"]}`, ErrNoEntryRoot},
		{"missing base name", `{"entry_root": "game", "base_name": "  ", "formats": ["tre"]}`, ErrEmptyBaseName},
		{"no formats", `{"entry_root": "game", "base_name": "data"}`, ErrNoFormats},
		{"unknown format", `{"entry_root": "game", "base_name": "data", "formats": ["zip"]}`, ErrUnknownFormat},
		{"tres without passphrase", `{"entry_root": "game", "base_name": "data", "formats": ["tres"]}`, ErrMissingPassphrase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadFromBytes([]byte(tt.content), ".json")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFromBytes_CaseInsensitiveExt(t *testing.T) {
	p, err := NewLoader().LoadFromBytes([]byte("entry_root: game\nbase_name: data\nformats: [.tre]\n"), ".YML")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "game"), p.EntryRoot)
	assert.Equal(t, []Format{FormatTRE}, p.Formats)
}
