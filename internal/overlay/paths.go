package overlay

import (
	"errors"
	"fmt"
	"strings"
)

// ManifestSeparator separates the relative path from the source in a manifest line
const ManifestSeparator = " @ "

// ErrInvalidRelPath indicates a relative path that cannot appear in a manifest
var ErrInvalidRelPath = errors.New("invalid relative path")

// ValidateRelPath checks that p is a normalized manifest relative path
func ValidateRelPath(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("%w: empty", ErrInvalidRelPath)
	case strings.HasPrefix(p, "/"):
		return fmt.Errorf("%w: leading slash in %q", ErrInvalidRelPath, p)
	case strings.Contains(p, "\\"):
		return fmt.Errorf("%w: backslash in %q", ErrInvalidRelPath, p)
	case len(p) >= 2 && p[1] == ':' && isASCIILetter(p[0]):
		return fmt.Errorf("%w: drive letter in %q", ErrInvalidRelPath, p)
	case strings.ContainsAny(p, "\r\n"):
		return fmt.Errorf("%w: line break in %q", ErrInvalidRelPath, p)
	case strings.Contains(p, ManifestSeparator):
		return fmt.Errorf("%w: separator %q in %q", ErrInvalidRelPath, ManifestSeparator, p)
	}

	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "":
			return fmt.Errorf("%w: empty segment in %q", ErrInvalidRelPath, p)
		case ".", "..":
			return fmt.Errorf("%w: %q segment in %q", ErrInvalidRelPath, seg, p)
		}
	}
	return nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
