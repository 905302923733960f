package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSentinelErrors verifies sentinel errors are defined
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check string
	}{
		{"ErrInvalidSource", ErrInvalidSource, "invalid source"},
		{"ErrOverrideConflict", ErrOverrideConflict, "override conflict"},
		{"ErrFilesystem", ErrFilesystem, "filesystem error"},
		{"ErrIO", ErrIO, "i/o error"},
		{"ErrBuilderNotFound", ErrBuilderNotFound, "not found"},
		{"ErrUnsupportedOption", ErrUnsupportedOption, "unsupported"},
		{"ErrConflictingOptions", ErrConflictingOptions, "conflicting"},
		{"ErrBuildFailed", ErrBuildFailed, "build failed"},
		{"ErrInvalidManifest", ErrInvalidManifest, "invalid manifest"},
		{"ErrCacheMiss", ErrCacheMiss, "cache miss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Contains(t, tt.err.Error(), tt.check)
		})
	}
}

func TestInvalidSourceError(t *testing.T) {
	err := NewInvalidSourceError("/data/missing", "does not exist")

	assert.Equal(t, "invalid source /data/missing: does not exist", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidSource))
	assert.False(t, errors.Is(err, ErrOverrideConflict))

	wrapped := fmt.Errorf("indexing failed: %w", err)
	var target *InvalidSourceError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "/data/missing", target.Path)
}

func TestOverrideConflictError(t *testing.T) {
	err := NewOverrideConflictError("cfg/settings.ini", "/a/cfg/settings.ini", "/b/cfg/settings.ini")

	msg := err.Error()
	assert.Contains(t, msg, "cfg/settings.ini")
	assert.Contains(t, msg, "/a/cfg/settings.ini")
	assert.Contains(t, msg, "/b/cfg/settings.ini")
	assert.True(t, errors.Is(err, ErrOverrideConflict))
}

func TestFilesystemError(t *testing.T) {
	err := NewFilesystemError("read", "/data/locked", fs.ErrPermission)

	assert.Contains(t, err.Error(), "/data/locked")
	assert.Contains(t, err.Error(), "read")
	assert.True(t, errors.Is(err, ErrFilesystem))
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Equal(t, fs.ErrPermission, err.Unwrap())
}

func TestIOError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewIOError("/out/treebuilder.rsp", cause)

	assert.Equal(t, "failed to write /out/treebuilder.rsp: disk full", err.Error())
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, cause))
}

func TestManifestParseError(t *testing.T) {
	err := NewManifestParseError(3, "garbage", "missing separator")

	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "missing separator")
	assert.True(t, errors.Is(err, ErrInvalidManifest))
}

func TestIsUserError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"invalid source", NewInvalidSourceError("/x", "missing"), true},
		{"override conflict", NewOverrideConflictError("a", "b", "c"), true},
		{"conflicting options", fmt.Errorf("%w: encrypt", ErrConflictingOptions), true},
		{"unsupported option", ErrUnsupportedOption, true},
		{"filesystem", NewFilesystemError("walk", "/x", fs.ErrPermission), false},
		{"io", NewIOError("/x", errors.New("boom")), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUserError(tt.err))
		})
	}
}
