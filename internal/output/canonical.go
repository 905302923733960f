package output

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/quantmind-br/treefile-go/internal/domain"
)

// dirCacheSize bounds the per-pass directory cache
const dirCacheSize = 4096

// ErrLineBreakInSource indicates a source path a manifest line cannot hold
var ErrLineBreakInSource = errors.New("line break in source path")

// canonicalizer resolves source paths to their canonical absolute form.
// Directory resolutions are memoized for the lifetime of one write.
type canonicalizer struct {
	dirs *lru.Cache[string, string]
}

func newCanonicalizer() *canonicalizer {
	dirs, _ := lru.New[string, string](dirCacheSize)
	return &canonicalizer{dirs: dirs}
}

// Canonical returns path with every symlink resolved and redundant segments
// removed. The file must exist and its canonical path must fit on one line.
func (c *canonicalizer) Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", domain.NewFilesystemError("canonicalize", path, err)
	}

	dir, base := filepath.Split(abs)
	resolvedDir, ok := c.dirs.Get(dir)
	if !ok {
		resolvedDir, err = filepath.EvalSymlinks(dir)
		if err != nil {
			return "", domain.NewFilesystemError("canonicalize", dir, err)
		}
		c.dirs.Add(dir, resolvedDir)
	}

	full := filepath.Join(resolvedDir, base)
	info, err := os.Lstat(full)
	if err != nil {
		return "", domain.NewFilesystemError("canonicalize", path, err)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		full, err = filepath.EvalSymlinks(full)
		if err != nil {
			return "", domain.NewFilesystemError("canonicalize", path, err)
		}
	}

	if strings.ContainsAny(full, "\r\n") {
		return "", domain.NewFilesystemError("canonicalize", path, ErrLineBreakInSource)
	}
	return full, nil
}

// Manifest returns a copy of m with every source canonicalized
func (c *canonicalizer) Manifest(m *domain.Manifest) (*domain.Manifest, error) {
	entries := m.Entries()
	for i := range entries {
		source, err := c.Canonical(entries[i].Source)
		if err != nil {
			return nil, err
		}
		entries[i].Source = source
	}
	return domain.NewManifest(entries), nil
}
