package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is an archive output format
type Format string

const (
	// FormatTRE is a plain archive built with --noEncrypt
	FormatTRE Format = "tre"
	// FormatTRES is an encrypted archive built with --encrypt and a passphrase
	FormatTRES Format = "tres"
)

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Encrypted reports whether the format requires a passphrase
func (f Format) Encrypted() bool {
	return f == FormatTRES
}

// DefaultPassphraseEnv is read when passphrase_env is not set
const DefaultPassphraseEnv = "TREEFILE_PASSPHRASE"

// Project describes one archive build
type Project struct {
	EntryRoot       string   `yaml:"entry_root" json:"entry_root" toml:"entry_root"`
	Updates         []string `yaml:"updates,omitempty" json:"updates,omitempty" toml:"updates,omitempty"`
	OutputDirectory string   `yaml:"output_directory,omitempty" json:"output_directory,omitempty" toml:"output_directory,omitempty"`
	BaseName        string   `yaml:"base_name" json:"base_name" toml:"base_name"`
	Formats         []Format `yaml:"formats" json:"formats" toml:"formats"`
	PassphraseEnv   string   `yaml:"passphrase_env,omitempty" json:"passphrase_env,omitempty" toml:"passphrase_env,omitempty"`
	AllowOverrides  *bool    `yaml:"allow_overrides,omitempty" json:"allow_overrides,omitempty" toml:"allow_overrides,omitempty"`
	Exclude         []string `yaml:"exclude,omitempty" json:"exclude,omitempty" toml:"exclude,omitempty"`

	// Passphrase is resolved from the environment, never read from the file
	Passphrase string `yaml:"-" json:"-" toml:"-"`
}

// Roots returns the entry root followed by the update roots in precedence order
func (p *Project) Roots() []string {
	roots := make([]string, 0, len(p.Updates)+1)
	roots = append(roots, p.EntryRoot)
	return append(roots, p.Updates...)
}

// Overrides reports whether later roots may replace earlier files
func (p *Project) Overrides() bool {
	return p.AllowOverrides == nil || *p.AllowOverrides
}

// OutputPath returns the archive path for a format
func (p *Project) OutputPath(f Format) string {
	return filepath.Join(p.OutputDirectory, p.BaseName+f.Extension())
}

// HasFormat reports whether f is requested
func (p *Project) HasFormat(f Format) bool {
	for _, have := range p.Formats {
		if have == f {
			return true
		}
	}
	return false
}

// Validate validates the project
func (p *Project) Validate() error {
	if strings.TrimSpace(p.EntryRoot) == "" {
		return ErrNoEntryRoot
	}
	if strings.TrimSpace(p.BaseName) == "" {
		return ErrEmptyBaseName
	}
	if len(p.Formats) == 0 {
		return ErrNoFormats
	}
	for _, f := range p.Formats {
		if f != FormatTRE && f != FormatTRES {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
	}
	if p.HasFormat(FormatTRES) && p.Passphrase == "" {
		return fmt.Errorf("%w (set %s)", ErrMissingPassphrase, p.passphraseEnv())
	}
	return nil
}

func (p *Project) passphraseEnv() string {
	if p.PassphraseEnv != "" {
		return p.PassphraseEnv
	}
	return DefaultPassphraseEnv
}

// resolvePassphrase reads the passphrase from the environment
func (p *Project) resolvePassphrase() {
	if p.Passphrase == "" {
		p.Passphrase = strings.TrimSpace(os.Getenv(p.passphraseEnv()))
	}
}
