package tree

import (
	"path/filepath"

	"github.com/quantmind-br/treefile-go/internal/utils"
)

// OriginKind classifies where a manifest file comes from
type OriginKind int

const (
	// OriginPrimary is a file under the entry root
	OriginPrimary OriginKind = iota
	// OriginUpdate is a file under one of the override roots
	OriginUpdate
	// OriginAdditional is a file outside every declared root
	OriginAdditional
)

// Origin is the display tag of a file leaf
type Origin struct {
	Kind OriginKind
	// Name is the override root's base name for OriginUpdate
	Name string
}

func (o Origin) String() string {
	switch o.Kind {
	case OriginPrimary:
		return "Primary source"
	case OriginUpdate:
		return "Update: " + o.Name
	default:
		return "Additional source"
	}
}

// ClassifyOrigin tags file by the first declared root containing it. The
// entry root is checked before override roots. Paths are compared after
// symlink resolution when possible.
func ClassifyOrigin(file, entryRoot string, overrideRoots []string) Origin {
	resolved := resolve(file)

	if entryRoot != "" && utils.IsWithin(resolve(entryRoot), resolved) {
		return Origin{Kind: OriginPrimary}
	}
	for _, root := range overrideRoots {
		r := resolve(root)
		if utils.IsWithin(r, resolved) {
			return Origin{Kind: OriginUpdate, Name: filepath.Base(r)}
		}
	}
	return Origin{Kind: OriginAdditional}
}

// resolve returns the canonical form of path, or its cleaned absolute form
// when the path cannot be resolved
func resolve(path string) string {
	abs, err := utils.AbsPath(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if canonical, err := filepath.EvalSymlinks(abs); err == nil {
		return canonical
	}
	return abs
}
