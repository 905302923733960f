// Package style holds the terminal palette shared by the tree view and the
// configuration editor.
package style

import "github.com/charmbracelet/lipgloss"

// Palette colors. Each adapts to light and dark terminals.
var (
	Accent  = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	Muted   = lipgloss.AdaptiveColor{Light: "245", Dark: "242"}
	Caution = lipgloss.AdaptiveColor{Light: "166", Dark: "214"}
	Alert   = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	Good    = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
)

var (
	// Strong marks folders, headings and the selected menu entry
	Strong = lipgloss.NewStyle().Bold(true).Foreground(Accent)

	// Title is the editor header
	Title = Strong.MarginBottom(1)

	// Faint is secondary text: primary-source tags, paths, hints
	Faint = lipgloss.NewStyle().Foreground(Muted)

	// Branch draws tree connectors
	Branch = Faint.PaddingRight(1)

	// Warn marks update-root files and unsaved changes
	Warn = lipgloss.NewStyle().Foreground(Caution)

	// Fail marks files from outside every root and errors
	Fail = lipgloss.NewStyle().Foreground(Alert)

	// OK marks a completed save
	OK = lipgloss.NewStyle().Foreground(Good)

	// Panel frames prompts that need an answer
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Caution).
		Padding(1, 2)
)
