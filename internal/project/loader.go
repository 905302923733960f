package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/quantmind-br/treefile-go/internal/utils"
	"gopkg.in/yaml.v3"
)

// Loader loads and validates project files
type Loader struct{}

// NewLoader creates a new project loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a project file from the given path. Relative paths
// inside the file are resolved against the file's directory.
func (l *Loader) Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	p, err := l.parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	return l.finish(p, dir)
}

// LoadFromBytes parses a project from raw bytes. Relative paths are
// resolved against the working directory.
func (l *Loader) LoadFromBytes(data []byte, ext string) (*Project, error) {
	p, err := l.parse(data, ext)
	if err != nil {
		return nil, err
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return l.finish(p, dir)
}

func (l *Loader) parse(data []byte, ext string) (*Project, error) {
	ext = strings.ToLower(ext)

	var p Project
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}
	return &p, nil
}

func (l *Loader) finish(p *Project, baseDir string) (*Project, error) {
	l.applyDefaults(p, baseDir)
	p.resolvePassphrase()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (l *Loader) applyDefaults(p *Project, baseDir string) {
	resolve := func(path string) string {
		path = strings.TrimSpace(path)
		if path == "" {
			return ""
		}
		path = utils.ExpandPath(path)
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return filepath.Clean(path)
	}

	p.EntryRoot = resolve(p.EntryRoot)
	for i, u := range p.Updates {
		p.Updates[i] = resolve(u)
	}
	p.OutputDirectory = resolve(p.OutputDirectory)
	if p.OutputDirectory == "" && p.EntryRoot != "" {
		p.OutputDirectory = filepath.Dir(p.EntryRoot)
	}

	p.BaseName = strings.TrimSpace(p.BaseName)
	for i, f := range p.Formats {
		p.Formats[i] = Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(string(f))), "."))
	}
}
