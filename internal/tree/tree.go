package tree

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/treefile-go/internal/domain"
)

// DefaultMaxEntries caps the number of files projected for display
const DefaultMaxEntries = 5000

// NodeKind distinguishes folders from files
type NodeKind int

const (
	KindFolder NodeKind = iota
	KindFile
)

// Node is one segment of the projected trie
type Node struct {
	Name     string
	Kind     NodeKind
	Origin   Origin
	Source   string
	Children []*Node

	lookup map[string]*Node
}

// Child returns the direct child with the given name
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.lookup[name]
	return c, ok
}

// IsFile reports whether the node is a file leaf
func (n *Node) IsFile() bool {
	return n.Kind == KindFile
}

func (n *Node) folder(name string) *Node {
	if c, ok := n.lookup[name]; ok {
		return c
	}
	c := &Node{Name: name, Kind: KindFolder}
	n.add(c)
	return c
}

func (n *Node) add(c *Node) {
	if n.lookup == nil {
		n.lookup = make(map[string]*Node)
	}
	n.lookup[c.Name] = c
	n.Children = append(n.Children, c)
}

// Tree is the display projection of a manifest
type Tree struct {
	Root       *Node
	Total      int
	Shown      int
	Truncated  bool
	MaxEntries int
}

// Project builds a trie from the first maxEntries manifest entries. A
// non-positive maxEntries uses DefaultMaxEntries.
func Project(m *domain.Manifest, entryRoot string, overrideRoots []string, maxEntries int) *Tree {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	root := &Node{
		Name:   rootLabel(entryRoot),
		Kind:   KindFolder,
		Origin: Origin{Kind: OriginPrimary},
	}

	total := m.Len()
	shown := total
	if shown > maxEntries {
		shown = maxEntries
	}

	for i := 0; i < shown; i++ {
		e := m.At(i)
		parts := strings.Split(e.RelativePath, "/")
		parent := root
		for _, part := range parts[:len(parts)-1] {
			parent = parent.folder(part)
		}
		parent.add(&Node{
			Name:   parts[len(parts)-1],
			Kind:   KindFile,
			Origin: ClassifyOrigin(e.Source, entryRoot, overrideRoots),
			Source: e.Source,
		})
	}

	return &Tree{
		Root:       root,
		Total:      total,
		Shown:      shown,
		Truncated:  total > shown,
		MaxEntries: maxEntries,
	}
}

// Summary describes the tree for a given number of indexed folders
func (t *Tree) Summary(folderCount int) string {
	return Summary(t.Total, folderCount, t.Truncated, t.MaxEntries)
}

// Summary renders the index summary line
func Summary(total, folderCount int, truncated bool, maxEntries int) string {
	label := "folders"
	if folderCount == 1 {
		label = "folder"
	}
	s := fmt.Sprintf("Indexed %d files from %d %s.", total, folderCount, label)
	if truncated {
		s += fmt.Sprintf(" Showing first %d entries.", maxEntries)
	}
	return s
}

func rootLabel(entryRoot string) string {
	if entryRoot == "" {
		return ""
	}
	clean := filepath.Clean(entryRoot)
	name := filepath.Base(clean)
	if name == string(filepath.Separator) || name == "." {
		name = clean
	}
	return name
}
