package rspconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    RootEntry
		wantErr bool
	}{
		{
			name: "label and path",
			raw:  "Root data=/srv/data",
			want: RootEntry{Label: "Root data", Path: "/srv/data"},
		},
		{
			name: "path only uses base name",
			raw:  "/srv/patch1",
			want: RootEntry{Label: "patch1", Path: "/srv/patch1"},
		},
		{
			name: "empty label uses base name",
			raw:  "=/srv/patch2/",
			want: RootEntry{Label: "patch2", Path: "/srv/patch2/"},
		},
		{
			name: "trims whitespace",
			raw:  "  Base = /srv/base  ",
			want: RootEntry{Label: "Base", Path: "/srv/base"},
		},
		{
			name:    "empty",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "label without path",
			raw:     "Label=",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntry(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries([]string{"A=/a", "/b"})
	require.NoError(t, err)
	assert.Equal(t, []RootEntry{{Label: "A", Path: "/a"}, {Label: "b", Path: "/b"}}, entries)

	_, err = ParseEntries([]string{"A=/a", ""})
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	t.Run("writes header and canonical path", func(t *testing.T) {
		tmp := t.TempDir()
		root := filepath.Join(tmp, "data")
		require.NoError(t, os.Mkdir(root, 0755))
		resolved, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)

		output := filepath.Join(tmp, DefaultFileName)
		path, err := Write(output, []RootEntry{{Label: "Root data", Path: root}}, Options{})
		require.NoError(t, err)
		assert.Equal(t, output, path)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "# Root data\n"+filepath.ToSlash(resolved)+"\n", string(data))
	})

	t.Run("preserves entry order", func(t *testing.T) {
		tmp := t.TempDir()
		var entries []RootEntry
		for _, name := range []string{"zeta", "alpha"} {
			dir := filepath.Join(tmp, name)
			require.NoError(t, os.Mkdir(dir, 0755))
			entries = append(entries, RootEntry{Label: name, Path: dir})
		}

		output := filepath.Join(tmp, "out.cfg")
		_, err := Write(output, entries, Options{NoHeader: true})
		require.NoError(t, err)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasSuffix(lines[0], "/zeta"))
		assert.True(t, strings.HasSuffix(lines[1], "/alpha"))
		assert.NotContains(t, string(data), "#")
	})

	t.Run("missing path fails", func(t *testing.T) {
		tmp := t.TempDir()
		output := filepath.Join(tmp, "out.cfg")

		_, err := Write(output, []RootEntry{{Label: "missing", Path: filepath.Join(tmp, "missing")}}, Options{})
		assert.ErrorIs(t, err, domain.ErrInvalidSource)
		assert.NoFileExists(t, output)
	})

	t.Run("missing path allowed", func(t *testing.T) {
		tmp := t.TempDir()
		missing := filepath.Join(tmp, "missing")
		output := filepath.Join(tmp, "out.cfg")

		_, err := Write(output, []RootEntry{{Label: "missing", Path: missing}}, Options{AllowMissing: true, NoHeader: true})
		require.NoError(t, err)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, filepath.ToSlash(missing)+"\n", string(data))
	})

	t.Run("file instead of directory fails", func(t *testing.T) {
		tmp := t.TempDir()
		file := filepath.Join(tmp, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := Write(filepath.Join(tmp, "out.cfg"), []RootEntry{{Label: "f", Path: file}}, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("no entries", func(t *testing.T) {
		_, err := Write(filepath.Join(t.TempDir(), "out.cfg"), nil, Options{})
		assert.ErrorIs(t, err, domain.ErrInvalidSource)
	})
}
