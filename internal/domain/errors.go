package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidSource indicates a source root is missing or not a directory
	ErrInvalidSource = errors.New("invalid source")

	// ErrOverrideConflict indicates two roots contribute the same relative path
	// while overrides are disabled
	ErrOverrideConflict = errors.New("override conflict")

	// ErrFilesystem indicates a traversal failure (permissions, I/O)
	ErrFilesystem = errors.New("filesystem error")

	// ErrIO indicates the manifest or config file could not be written
	ErrIO = errors.New("i/o error")

	// ErrBuilderNotFound indicates the TreeFileBuilder executable was not found
	ErrBuilderNotFound = errors.New("TreeFileBuilder executable not found")

	// ErrUnsupportedOption indicates the executable lacks a requested option
	ErrUnsupportedOption = errors.New("unsupported builder option")

	// ErrConflictingOptions indicates mutually exclusive build options
	ErrConflictingOptions = errors.New("conflicting builder options")

	// ErrBuildFailed indicates the builder exited with a non-zero code
	ErrBuildFailed = errors.New("build failed")

	// ErrInvalidManifest indicates a manifest file could not be parsed
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")
)

// InvalidSourceError represents a source root that cannot be indexed
type InvalidSourceError struct {
	Path   string
	Reason string
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid source %s: %s", e.Path, e.Reason)
}

// Is reports whether target is ErrInvalidSource
func (e *InvalidSourceError) Is(target error) bool {
	return target == ErrInvalidSource
}

// NewInvalidSourceError creates a new InvalidSourceError
func NewInvalidSourceError(path, reason string) *InvalidSourceError {
	return &InvalidSourceError{
		Path:   path,
		Reason: reason,
	}
}

// OverrideConflictError represents a relative path contributed by two roots
type OverrideConflictError struct {
	RelativePath   string
	ExistingSource string
	IncomingSource string
}

func (e *OverrideConflictError) Error() string {
	return fmt.Sprintf("override conflict for %s: %s and %s (enable overrides or remove one of the roots)",
		e.RelativePath, e.ExistingSource, e.IncomingSource)
}

// Is reports whether target is ErrOverrideConflict
func (e *OverrideConflictError) Is(target error) bool {
	return target == ErrOverrideConflict
}

// NewOverrideConflictError creates a new OverrideConflictError
func NewOverrideConflictError(relPath, existing, incoming string) *OverrideConflictError {
	return &OverrideConflictError{
		RelativePath:   relPath,
		ExistingSource: existing,
		IncomingSource: incoming,
	}
}

// FilesystemError represents a traversal failure at a specific path
type FilesystemError struct {
	Path string
	Op   string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem error during %s of %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFilesystem
func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}

// NewFilesystemError creates a new FilesystemError
func NewFilesystemError(op, path string, err error) *FilesystemError {
	return &FilesystemError{
		Path: path,
		Op:   op,
		Err:  err,
	}
}

// IOError represents a failure writing an output file
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIO
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NewIOError creates a new IOError
func NewIOError(path string, err error) *IOError {
	return &IOError{
		Path: path,
		Err:  err,
	}
}

// ManifestParseError represents a malformed line in a manifest file
type ManifestParseError struct {
	Line    int
	Content string
	Message string
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("manifest line %d: %s: %q", e.Line, e.Message, e.Content)
}

// Is reports whether target is ErrInvalidManifest
func (e *ManifestParseError) Is(target error) bool {
	return target == ErrInvalidManifest
}

// NewManifestParseError creates a new ManifestParseError
func NewManifestParseError(line int, content, message string) *ManifestParseError {
	return &ManifestParseError{
		Line:    line,
		Content: content,
		Message: message,
	}
}

// IsUserError reports whether err requires the user to fix their input
// rather than their environment
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidSource) ||
		errors.Is(err, ErrOverrideConflict) ||
		errors.Is(err, ErrConflictingOptions) ||
		errors.Is(err, ErrUnsupportedOption)
}
