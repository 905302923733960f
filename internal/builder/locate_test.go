package builder

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	t.Run("explicit override", func(t *testing.T) {
		exe := fakeExecutable(t)
		got, err := Locate(exe)
		require.NoError(t, err)
		assert.Equal(t, exe, got)
	})

	t.Run("missing override is an error even when env is set", func(t *testing.T) {
		t.Setenv(EnvExecutablePath, fakeExecutable(t))
		_, err := Locate(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, domain.ErrBuilderNotFound)
		assert.Contains(t, err.Error(), "nope")
	})

	t.Run("override must not be a directory", func(t *testing.T) {
		_, err := Locate(t.TempDir())
		assert.ErrorIs(t, err, domain.ErrBuilderNotFound)
	})

	t.Run("environment variable", func(t *testing.T) {
		exe := fakeExecutable(t)
		t.Setenv(EnvExecutablePath, exe)
		got, err := Locate("")
		require.NoError(t, err)
		assert.Equal(t, exe, got)
	})

	t.Run("search path", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("PATHEXT lookup differs on windows")
		}
		exe := fakeExecutable(t)
		t.Setenv(EnvExecutablePath, "")
		t.Setenv("PATH", filepath.Dir(exe))
		got, err := Locate("")
		require.NoError(t, err)
		assert.Equal(t, exe, got)
	})

	t.Run("not found", func(t *testing.T) {
		t.Setenv(EnvExecutablePath, filepath.Join(t.TempDir(), "stale"))
		t.Setenv("PATH", t.TempDir())
		_, err := Locate("")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBuilderNotFound)
		assert.Contains(t, err.Error(), EnvExecutablePath)
	})
}

func TestExisting(t *testing.T) {
	exe := fakeExecutable(t)
	got, ok := existing(exe)
	assert.True(t, ok)
	assert.Equal(t, exe, got)

	_, ok = existing(filepath.Join(filepath.Dir(exe), "missing"))
	assert.False(t, ok)

	require.NoError(t, os.Remove(exe))
	_, ok = existing(exe)
	assert.False(t, ok)
}
