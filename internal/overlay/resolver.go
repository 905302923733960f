package overlay

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/quantmind-br/treefile-go/internal/utils"
)

// Ensure Resolver implements domain.Resolver
var _ domain.Resolver = (*Resolver)(nil)

// Resolver merges source roots into a manifest
type Resolver struct {
	entryRoot      string
	allowOverrides bool
	matcher        gitignore.Matcher
	logger         *utils.Logger
	onFile         func(root, relPath string)
}

// Options contains options for creating a Resolver
type Options struct {
	// EntryRoot defines the relative namespace. Empty means the first root
	// passed to BuildEntries.
	EntryRoot      string
	AllowOverrides bool
	// Exclude holds gitignore-style patterns matched against relative paths
	Exclude []string
	Logger  *utils.Logger
	// OnFile is called for every file accepted from a root walk
	OnFile func(root, relPath string)
}

// NewResolver creates a new Resolver
func NewResolver(opts Options) *Resolver {
	var patterns []gitignore.Pattern
	for _, raw := range opts.Exclude {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(raw, nil))
	}

	r := &Resolver{
		entryRoot:      opts.EntryRoot,
		allowOverrides: opts.AllowOverrides,
		logger:         opts.Logger,
		onFile:         opts.OnFile,
	}
	if len(patterns) > 0 {
		r.matcher = gitignore.NewMatcher(patterns)
	}
	if r.logger == nil {
		r.logger = utils.Nop()
	}
	return r
}

// EntryRoot returns the configured entry root (may be empty)
func (r *Resolver) EntryRoot() string {
	return r.entryRoot
}

// AllowOverrides reports whether later roots may replace earlier files
func (r *Resolver) AllowOverrides() bool {
	return r.allowOverrides
}

// ResolveRoots validates roots and returns them as cleaned absolute paths in
// precedence order (entry root first). A root named more than once keeps its
// first position.
func (r *Resolver) ResolveRoots(roots []string) ([]string, error) {
	if len(roots) == 0 {
		return nil, domain.NewInvalidSourceError("", "no source roots given")
	}

	var entry string
	if r.entryRoot != "" {
		abs, err := utils.AbsPath(r.entryRoot)
		if err != nil {
			return nil, domain.NewInvalidSourceError(r.entryRoot, err.Error())
		}
		entry = abs
	}

	resolved := make([]string, 0, len(roots)+1)
	seen := make(map[string]bool, len(roots)+1)
	if entry != "" {
		resolved = append(resolved, entry)
		seen[entry] = true
	}
	for _, root := range roots {
		abs, err := utils.AbsPath(root)
		if err != nil {
			return nil, domain.NewInvalidSourceError(root, err.Error())
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		resolved = append(resolved, abs)
	}

	for _, root := range resolved {
		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, domain.NewInvalidSourceError(root, "does not exist")
			}
			return nil, domain.NewInvalidSourceError(root, err.Error())
		}
		if !info.IsDir() {
			return nil, domain.NewInvalidSourceError(root, "not a directory")
		}
	}

	return resolved, nil
}

// BuildEntries walks every root in order and merges the results into a
// manifest. Later roots win when overrides are allowed; otherwise a repeated
// relative path is an OverrideConflictError. Cancellation is checked between
// roots only.
func (r *Resolver) BuildEntries(ctx context.Context, roots []string) (*domain.Manifest, error) {
	resolved, err := r.ResolveRoots(roots)
	if err != nil {
		return nil, err
	}

	slots := make(map[string]string)
	overridden := 0

	for i, root := range resolved {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files, err := r.walkRoot(root)
		if err != nil {
			return nil, err
		}

		for _, f := range files {
			prev, seen := slots[f.RelativePath]
			if seen {
				if !r.allowOverrides {
					return nil, domain.NewOverrideConflictError(f.RelativePath, prev, f.Source)
				}
				overridden++
				r.logger.Debug().
					Str("path", f.RelativePath).
					Str("previous", prev).
					Str("source", f.Source).
					Msg("Overriding entry")
			}
			slots[f.RelativePath] = f.Source
		}

		r.logger.WithRoot(root).Debug().
			Int("index", i).
			Int("files", len(files)).
			Msg("Indexed source root")
	}

	entries := make([]domain.Entry, 0, len(slots))
	for rel, source := range slots {
		entries = append(entries, domain.Entry{RelativePath: rel, Source: source})
	}
	manifest := domain.NewManifest(entries)

	r.logger.Info().
		Int("roots", len(resolved)).
		Int("entries", manifest.Len()).
		Int("overridden", overridden).
		Msg("Resolved source roots")

	return manifest, nil
}

// walkRoot returns every regular file beneath root, relative to root
func (r *Resolver) walkRoot(root string) ([]domain.Entry, error) {
	var files []domain.Entry
	logger := r.logger.WithRoot(root)

	// WalkDir does not descend into a symlinked root
	if info, err := os.Lstat(root); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		target, err := filepath.EvalSymlinks(root)
		if err != nil {
			return nil, domain.NewFilesystemError("resolve", root, err)
		}
		root = target
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			op := "walk"
			if d != nil && d.IsDir() {
				op = "read directory"
			}
			return domain.NewFilesystemError(op, path, err)
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return domain.NewFilesystemError("relativize", path, err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if r.excluded(rel, true) {
				return fs.SkipDir
			}
			return nil
		}

		regular, err := isRegularFile(logger, path, d)
		if err != nil {
			return err
		}
		if !regular || r.excluded(rel, false) {
			return nil
		}

		if err := ValidateRelPath(rel); err != nil {
			return domain.NewFilesystemError("validate", path, err)
		}

		files = append(files, domain.Entry{RelativePath: rel, Source: path})
		if r.onFile != nil {
			r.onFile(root, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// isRegularFile reports whether the walk entry should be emitted. Symlinks to
// regular files are emitted; symlinks to directories are not followed.
func isRegularFile(logger *utils.Logger, path string, d fs.DirEntry) (bool, error) {
	mode := d.Type()
	if mode.IsRegular() {
		return true, nil
	}

	if mode&fs.ModeSymlink == 0 {
		logger.Debug().Str("path", path).Str("mode", mode.String()).Msg("Skipping non-regular file")
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("path", path).Msg("Skipping broken symlink")
			return false, nil
		}
		return false, domain.NewFilesystemError("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		logger.Debug().Str("path", path).Msg("Skipping symlink to non-regular file")
		return false, nil
	}
	return true, nil
}

func (r *Resolver) excluded(rel string, isDir bool) bool {
	if r.matcher == nil {
		return false
	}
	return r.matcher.Match(strings.Split(rel, "/"), isDir)
}
