// Package project loads project files describing a complete archive build:
// which folders to index, where to write the archives and which formats to
// produce.
//
// # Project Format
//
// Projects can be written in YAML, JSON or TOML:
//
//	entry_root: ./game
//	updates:
//	  - ./patch1
//	  - ./patch2
//	output_directory: ./dist
//	base_name: data
//	formats: [tre, tres]
//	passphrase_env: TREEFILE_PASSPHRASE
//	exclude:
//	  - "*.bak"
//
// Relative paths are resolved against the directory holding the project file.
//
// # Usage
//
//	loader := project.NewLoader()
//	p, err := loader.Load("build.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrNoEntryRoot: project has no entry_root
//   - ErrNoFormats: no output format selected
//   - ErrEmptyBaseName: base_name is blank
//   - ErrMissingPassphrase: a .tres build has no passphrase
//   - ErrInvalidFormat: file is not valid YAML/JSON/TOML
//   - ErrFileNotFound: project file does not exist
//   - ErrUnsupportedExt: unsupported file extension
package project
