package output

import (
	"context"

	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/quantmind-br/treefile-go/internal/utils"
)

// manifestPerm is the mode of written manifest files
const manifestPerm = 0644

// Writer resolves source roots and writes the manifest file
type Writer struct {
	resolver domain.Resolver
	logger   *utils.Logger
	compress bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	Resolver domain.Resolver
	Logger   *utils.Logger
	// Compress also writes a zstd copy next to the manifest
	Compress bool
}

// WriteResult describes a written manifest
type WriteResult struct {
	Path           string
	CompressedPath string
	Manifest       *domain.Manifest
}

// NewWriter creates a new manifest writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.Logger == nil {
		opts.Logger = utils.Nop()
	}

	return &Writer{
		resolver: opts.Resolver,
		logger:   opts.Logger,
		compress: opts.Compress,
	}
}

// Write builds the manifest for roots and writes it to destination.
// The destination is either fully replaced or left untouched.
func (w *Writer) Write(ctx context.Context, destination string, roots []string) (*WriteResult, error) {
	manifest, err := w.resolver.BuildEntries(ctx, roots)
	if err != nil {
		return nil, err
	}
	return w.WriteManifest(destination, manifest)
}

// WriteManifest canonicalizes and writes an already resolved manifest
func (w *Writer) WriteManifest(destination string, manifest *domain.Manifest) (*WriteResult, error) {
	path, err := utils.AbsPath(destination)
	if err != nil {
		return nil, domain.NewIOError(destination, err)
	}

	canonical, err := newCanonicalizer().Manifest(manifest)
	if err != nil {
		return nil, err
	}

	data := Format(canonical)
	if err := utils.AtomicWrite(path, data, manifestPerm); err != nil {
		return nil, domain.NewIOError(path, err)
	}

	result := &WriteResult{
		Path:     path,
		Manifest: canonical,
	}

	if w.compress {
		zpath := path + CompressedExt
		zdata, err := compress(data)
		if err != nil {
			return nil, domain.NewIOError(zpath, err)
		}
		if err := utils.AtomicWrite(zpath, zdata, manifestPerm); err != nil {
			return nil, domain.NewIOError(zpath, err)
		}
		result.CompressedPath = zpath
	}

	w.logger.Info().
		Str("path", path).
		Int("entries", canonical.Len()).
		Bool("compressed", w.compress).
		Msg("Wrote response file")

	return result, nil
}
