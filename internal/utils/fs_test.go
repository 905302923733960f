package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates directory", func(t *testing.T) {
		tempDir := t.TempDir()
		testPath := filepath.Join(tempDir, "subdir", "file.txt")

		require.NoError(t, EnsureDir(testPath))

		info, err := os.Stat(filepath.Dir(testPath))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("existing directory", func(t *testing.T) {
		testPath := filepath.Join(t.TempDir(), "file.txt")

		require.NoError(t, EnsureDir(testPath))
		require.NoError(t, EnsureDir(testPath))
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"home directory with slash", "~/test", filepath.Join(home, "test")},
		{"home directory only", "~", home},
		{"regular path", "/tmp/test", "/tmp/test"},
		{"relative path", "./test", "./test"},
		{"tilde in the middle", "/tmp/~/x", "/tmp/~/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestAbsPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := AbsPath("a/../b/./c")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "b", "c"), got)
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}

func TestIsWithin(t *testing.T) {
	root := filepath.FromSlash("/data/base")

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"root itself", "/data/base", true},
		{"child file", "/data/base/a.txt", true},
		{"nested file", "/data/base/sub/b.txt", true},
		{"sibling with shared prefix", "/data/base2/a.txt", false},
		{"parent", "/data", false},
		{"dotdot-prefixed name is inside", "/data/base/..hidden", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWithin(root, filepath.FromSlash(tt.path)))
		})
	}
}

func TestAtomicWrite(t *testing.T) {
	t.Run("creates parents and writes content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "out.rsp")

		require.NoError(t, AtomicWrite(path, []byte("a.txt @ /x/a.txt\n"), 0644))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a.txt @ /x/a.txt\n", string(data))
	})

	t.Run("replaces existing file and leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.rsp")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		require.NoError(t, AtomicWrite(path, []byte("new"), 0644))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("fails when destination is a directory", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "taken")
		require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0755))

		err := AtomicWrite(target, []byte("x"), 0644)
		assert.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
