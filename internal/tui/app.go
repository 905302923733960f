// Package tui provides an interactive terminal editor for the treefile
// configuration file.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/quantmind-br/treefile-go/internal/config"
	"github.com/quantmind-br/treefile-go/internal/style"
)

const (
	title     = "TreeFile Configuration"
	saveLabel = "Save Configuration"
)

type screen int

const (
	screenMenu screen = iota
	screenForm
	screenConfirm
	screenDone
)

type keyMap struct {
	Up, Down, Open, Save, Quit key.Binding
	Back                       key.Binding
	Yes, No, Stay              key.Binding
}

var keys = keyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Save: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Yes:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "save and quit")),
	No:   key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "discard")),
	Stay: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "keep editing")),
}

// Model is the bubbletea model of the configuration editor. The menu lists
// one entry per config section plus a save entry; each section opens a huh
// form bound to the shared ConfigValues.
type Model struct {
	screen     screen
	values     *ConfigValues
	cursor     int
	form       *huh.Form
	section    *Category
	dirty      bool
	saved      bool
	err        error
	save       func(*config.Config) error
	accessible bool
	path       string
	help       help.Model
}

// Options configures the editor. SaveFunc receives the validated config.
type Options struct {
	Config     *config.Config
	SaveFunc   func(*config.Config) error
	Accessible bool
	// Path is shown in the header
	Path string
}

// NewModel returns an editor positioned on the first section. A nil config
// starts from the defaults.
func NewModel(opts Options) Model {
	h := help.New()
	h.Styles.ShortKey = style.Strong
	h.Styles.ShortDesc = style.Faint
	h.Styles.ShortSeparator = style.Faint

	return Model{
		values:     FromConfig(opts.Config),
		save:       opts.SaveFunc,
		accessible: opts.Accessible,
		path:       opts.Path,
		help:       h,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.help.Width = size.Width
	}
	if m.screen == screenForm {
		return m.updateForm(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch m.screen {
	case screenMenu:
		return m.menuKey(k)
	case screenConfirm:
		return m.confirmKey(k)
	default:
		return m, tea.Quit
	}
}

func (m Model) menuKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(Categories)
	switch {
	case key.Matches(k, keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(k, keys.Down):
		m.cursor = min(m.cursor+1, last)
	case key.Matches(k, keys.Save):
		return m.commit()
	case key.Matches(k, keys.Open):
		if m.cursor == last {
			return m.commit()
		}
		return m.open(Categories[m.cursor].ID)
	case key.Matches(k, keys.Quit):
		if m.dirty {
			m.screen = screenConfirm
			return m, nil
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) confirmKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, keys.Yes):
		return m.commit()
	case key.Matches(k, keys.No):
		return m, tea.Quit
	case key.Matches(k, keys.Stay):
		m.screen = screenMenu
	}
	return m, nil
}

func (m Model) open(id string) (tea.Model, tea.Cmd) {
	form := GetFormForCategory(id, m.values)
	if form == nil {
		return m, nil
	}
	form = form.WithTheme(formTheme(m.accessible))
	if m.accessible {
		form = form.WithAccessible(true)
	}

	m.form = form
	m.section = GetCategoryByID(id)
	m.screen = screenForm
	return m, form.Init()
}

// updateForm forwards msg to the open form. A completed form marks the
// values dirty; esc leaves without completing.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.Back) {
		m.screen, m.form, m.section = screenMenu, nil, nil
		return m, nil
	}

	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.dirty = true
		m.screen, m.form, m.section = screenMenu, nil, nil
		return m, nil
	}
	return m, cmd
}

// commit validates the values and hands them to the save callback
func (m Model) commit() (tea.Model, tea.Cmd) {
	m.screen = screenDone
	cfg, err := m.values.ToConfig()
	if err == nil && m.save != nil {
		err = m.save(cfg)
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	m.saved, m.dirty = true, false
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(style.Title.Render(title))
	b.WriteString("\n")
	if m.path != "" {
		b.WriteString(style.Faint.Render(m.path))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.screen {
	case screenMenu:
		b.WriteString(m.menuView())
	case screenForm:
		if m.section != nil {
			b.WriteString(style.Strong.Render(m.section.Name))
			b.WriteString("\n\n")
		}
		b.WriteString(m.form.View())
	case screenConfirm:
		b.WriteString(style.Panel.Render("You have unsaved changes.\n\nSave before quitting?"))
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Yes, keys.No, keys.Stay}))
	case screenDone:
		if m.err != nil {
			b.WriteString(style.Fail.Render("Error: " + m.err.Error()))
		} else {
			b.WriteString(style.OK.Render("Configuration saved."))
		}
		b.WriteString("\n\n")
		b.WriteString(style.Faint.Render("Press any key to exit."))
	}
	return b.String()
}

func (m Model) menuView() string {
	var b strings.Builder
	for i, cat := range Categories {
		b.WriteString(m.menuLine(i, cat.Name))
		if i == m.cursor {
			b.WriteString(style.Faint.Render("  " + cat.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.menuLine(len(Categories), saveLabel))
	if m.dirty {
		b.WriteString(style.Warn.Render(" *"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Up, keys.Down, keys.Open, keys.Save, keys.Quit}))
	return b.String()
}

func (m Model) menuLine(i int, label string) string {
	if i == m.cursor {
		return style.Strong.Render("> " + label)
	}
	return "  " + label
}

// Saved reports whether the last save succeeded
func (m Model) Saved() bool {
	return m.saved
}

// Err returns the error that stopped the editor, if any
func (m Model) Err() error {
	return m.err
}

// Run starts the editor on the alternate screen and blocks until it exits
func Run(opts Options) error {
	final, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
