package output

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/quantmind-br/treefile-go/internal/domain"
	"github.com/quantmind-br/treefile-go/internal/overlay"
)

// CompressedExt is appended to manifest paths for zstd copies
const CompressedExt = ".zst"

// maxLineSize bounds a single manifest line
const maxLineSize = 1 << 20

// FormatLine renders one manifest line without the trailing newline
func FormatLine(e domain.Entry) string {
	return e.RelativePath + overlay.ManifestSeparator + e.Source
}

// Format renders a manifest as newline-terminated lines in manifest order
func Format(m *domain.Manifest) []byte {
	var buf bytes.Buffer
	for _, e := range m.Entries() {
		buf.WriteString(FormatLine(e))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Parse reads a manifest. Lines must be sorted by relative path with no
// duplicates, and every source must be absolute.
func Parse(r io.Reader) (*domain.Manifest, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		entries []domain.Entry
		prev    string
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		rel, source, ok := strings.Cut(line, overlay.ManifestSeparator)
		if !ok {
			return nil, domain.NewManifestParseError(lineNo, line, "missing separator")
		}
		if err := overlay.ValidateRelPath(rel); err != nil {
			return nil, domain.NewManifestParseError(lineNo, line, err.Error())
		}
		if source == "" || !filepath.IsAbs(source) {
			return nil, domain.NewManifestParseError(lineNo, line, "source is not an absolute path")
		}
		if len(entries) > 0 {
			switch {
			case rel == prev:
				return nil, domain.NewManifestParseError(lineNo, line, "duplicate relative path")
			case rel < prev:
				return nil, domain.NewManifestParseError(lineNo, line, "entries are not sorted")
			}
		}

		entries = append(entries, domain.Entry{RelativePath: rel, Source: source})
		prev = rel
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidManifest, err)
	}

	return domain.NewManifest(entries), nil
}

// ParseFile reads a manifest file, decompressing it when the name ends in .zst
func ParseFile(path string) (*domain.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(path, CompressedExt) {
		return Parse(f)
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open compressed manifest: %w", err)
	}
	defer dec.Close()

	return Parse(dec)
}

// compress returns the zstd encoding of data
func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}
