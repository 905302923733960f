package project

import "errors"

// Sentinel errors for the project package
var (
	// ErrNoEntryRoot indicates the project has no entry root
	ErrNoEntryRoot = errors.New("project must define entry_root")

	// ErrNoFormats indicates no output format was selected
	ErrNoFormats = errors.New("select at least one output format (tre or tres)")

	// ErrUnknownFormat indicates an output format other than tre or tres
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrEmptyBaseName indicates the archive base name is blank
	ErrEmptyBaseName = errors.New("base_name cannot be empty")

	// ErrMissingPassphrase indicates a .tres build without a passphrase
	ErrMissingPassphrase = errors.New("provide a passphrase to generate .tres files")

	// ErrInvalidFormat indicates the project file is not valid YAML, JSON or TOML
	ErrInvalidFormat = errors.New("project must be valid YAML, JSON or TOML")

	// ErrFileNotFound indicates the project file does not exist
	ErrFileNotFound = errors.New("project file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, .json or .toml)")
)
