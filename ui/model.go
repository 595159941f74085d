// Package ui is the terminal front end: a query box above the ranked list.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/montrey/runa/config"
	"github.com/montrey/runa/controller"
)

// KeyMap holds the bindings of the list.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "shift+tab"),
			key.WithHelp("↑/ctrl+p", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "tab"),
			key.WithHelp("↓/ctrl+n", "down"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "launch"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// Model is the bubbletea model of a session.
type Model struct {
	ctrl   *controller.Controller
	input  textinput.Model
	list   ListModel
	keys   KeyMap
	styles config.Styles
	lines  int

	activated bool
	err       error
}

// New returns a model driving ctrl. lines caps the list height; 0 fills the
// terminal.
func New(ctrl *controller.Controller, styles config.Styles, lines int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder(ctrl.Mode())
	ti.Focus()
	ti.CharLimit = 256

	return Model{
		ctrl:   ctrl,
		input:  ti,
		list:   ListModel{Height: lines},
		keys:   DefaultKeyMap(),
		styles: styles,
		lines:  lines,
	}
}

func placeholder(mode controller.Mode) string {
	switch mode {
	case controller.ModeScripts:
		return "Run script"
	case controller.ModeStdin:
		return "Select"
	}
	return "Launch"
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.ctrl.Move(-1)
		case key.Matches(msg, m.keys.Down):
			m.ctrl.Move(1)
		case key.Matches(msg, m.keys.Submit):
			action, ok := m.ctrl.Submit()
			if !ok {
				return m, nil
			}
			m.activated = true
			m.err = m.ctrl.Activate(action)
			return m, tea.Quit
		default:
			old := m.input.Value()
			m.input, cmd = m.input.Update(msg)
			if value := m.input.Value(); value != old {
				m.ctrl.SetQuery(value)
			}
		}

	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 1
		m.list.Width = msg.Width
		height := msg.Height - 1
		if m.lines > 0 {
			height = min(height, m.lines)
		}
		m.list.Height = max(height, 1)

	default:
		m.input, cmd = m.input.Update(msg)
	}

	m.list.Follow(m.ctrl.Cursor(), len(m.ctrl.Visible()))
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.input.View(),
		m.list.View(m.ctrl.Visible(), m.ctrl.Cursor(), m.styles),
	)
}

// Activated reports whether an action was run before quitting.
func (m Model) Activated() bool { return m.activated }

// Err returns the error of the activation, if any.
func (m Model) Err() error { return m.err }
