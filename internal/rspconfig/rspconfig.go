// Package rspconfig writes the root-list configuration file consumed by the
// response file tooling. Each declared root is written as a "# <label>" header
// followed by its canonical absolute path in forward-slash form.
package rspconfig

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/quantmind-br/treefile-go/internal/utils"
)

// DefaultFileName is the conventional name of the root-list file
const DefaultFileName = "TreeFileRspBuilder.cfg"

// RootEntry is one declared root
type RootEntry struct {
	Label string
	Path  string
}

// Options controls how the file is written
type Options struct {
	// AllowMissing writes roots that do not exist instead of failing
	AllowMissing bool
	// NoHeader omits the "# <label>" lines
	NoHeader bool
}

// ParseEntry parses "Label=PATH" or "PATH". The label defaults to the base
// name of the path.
func ParseEntry(raw string) (RootEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RootEntry{}, domain.NewInvalidSourceError(raw, "empty root entry")
	}

	label, path, found := strings.Cut(raw, "=")
	if !found {
		path, label = label, ""
	}
	label = strings.TrimSpace(label)
	path = strings.TrimSpace(path)

	if path == "" {
		return RootEntry{}, domain.NewInvalidSourceError(raw, "missing path")
	}
	if label == "" {
		label = filepath.Base(filepath.Clean(utils.ExpandPath(path)))
	}

	return RootEntry{Label: label, Path: path}, nil
}

// ParseEntries parses every raw entry in order
func ParseEntries(raw []string) ([]RootEntry, error) {
	entries := make([]RootEntry, 0, len(raw))
	for _, r := range raw {
		e, err := ParseEntry(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Render produces the file contents for entries
func Render(entries []RootEntry, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		path, err := canonicalRoot(e.Path, opts.AllowMissing)
		if err != nil {
			return nil, err
		}
		if !opts.NoHeader {
			buf.WriteString("# " + e.Label + "\n")
		}
		buf.WriteString(filepath.ToSlash(path) + "\n")
	}
	return buf.Bytes(), nil
}

// Write renders entries and atomically writes them to output
func Write(output string, entries []RootEntry, opts Options) (string, error) {
	if len(entries) == 0 {
		return "", domain.NewInvalidSourceError("", "no root entries given")
	}

	data, err := Render(entries, opts)
	if err != nil {
		return "", err
	}

	path, err := utils.AbsPath(output)
	if err != nil {
		return "", domain.NewIOError(output, err)
	}
	if err := utils.AtomicWrite(path, data, 0644); err != nil {
		return "", domain.NewIOError(path, err)
	}
	return path, nil
}

func canonicalRoot(path string, allowMissing bool) (string, error) {
	abs, err := utils.AbsPath(path)
	if err != nil {
		return "", domain.NewInvalidSourceError(path, err.Error())
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if allowMissing {
				return abs, nil
			}
			return "", domain.NewInvalidSourceError(abs, "does not exist")
		}
		return "", domain.NewInvalidSourceError(abs, err.Error())
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", domain.NewInvalidSourceError(abs, err.Error())
	}
	if !info.IsDir() {
		return "", domain.NewInvalidSourceError(abs, "not a directory")
	}
	return resolved, nil
}
