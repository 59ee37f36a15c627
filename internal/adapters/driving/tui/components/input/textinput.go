// Package input provides text input components for the TUI.
package input

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/learningequality/alignpro/internal/adapters/driving/tui/styles"
)

// NodeInput is a text input that accepts a node id.
type NodeInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
}

// NewNodeInput creates a node id input with the given label.
func NewNodeInput(s *styles.Styles, label string) *NodeInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "node id"
	ti.CharLimit = 19
	ti.Width = 20
	ti.Validate = func(v string) error {
		for _, r := range v {
			if r < '0' || r > '9' {
				return fmt.Errorf("node ids are numeric")
			}
		}
		return nil
	}
	ti.Focus()

	return &NodeInput{textinput: ti, styles: s, label: label}
}

// Init initialises the input.
func (n *NodeInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (n *NodeInput) Update(msg tea.Msg) (*NodeInput, tea.Cmd) {
	var cmd tea.Cmd
	n.textinput, cmd = n.textinput.Update(msg)
	return n, cmd
}

// View renders the input with its label.
func (n *NodeInput) View() string {
	label := n.styles.Title.Render(n.label + " ")
	field := n.styles.InputField.Render(n.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// NodeID parses the current value as a positive node id.
func (n *NodeInput) NodeID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(n.textinput.Value()), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Value returns the raw input value.
func (n *NodeInput) Value() string {
	return n.textinput.Value()
}

// SetValue sets the input value.
func (n *NodeInput) SetValue(value string) {
	n.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (n *NodeInput) Focus() tea.Cmd {
	return n.textinput.Focus()
}

// Blur removes focus from the input.
func (n *NodeInput) Blur() {
	n.textinput.Blur()
}

// Focused returns whether the input is focused.
func (n *NodeInput) Focused() bool {
	return n.textinput.Focused()
}

// Reset clears the input.
func (n *NodeInput) Reset() {
	n.textinput.Reset()
}
