package tree

import (
	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/quantmind-br/treefile-go/internal/style"
)

var originStyles = map[OriginKind]lipgloss.Style{
	OriginPrimary:    style.Faint,
	OriginUpdate:     style.Warn,
	OriginAdditional: style.Fail,
}

// Render draws the tree with folders suffixed by "/" and files tagged with
// their origin
func Render(t *Tree) string {
	if t == nil || t.Root == nil {
		return ""
	}
	return renderFolder(t.Root).String()
}

func renderFolder(n *Node) *ltree.Tree {
	out := ltree.Root(style.Strong.Render(n.Name + "/")).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(style.Branch)

	for _, c := range n.Children {
		if c.IsFile() {
			out.Child(fileLabel(c))
			continue
		}
		out.Child(renderFolder(c))
	}
	return out
}

func fileLabel(n *Node) string {
	return n.Name + "  " + originStyles[n.Origin.Kind].Render("("+n.Origin.String()+")")
}
