// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Unrelated rates the current pair 0.
	Unrelated key.Binding

	// Partial rates the current pair 0.5.
	Partial key.Binding

	// Related rates the current pair 1.
	Related key.Binding

	// Skip draws a new pair without judging.
	Skip key.Binding

	// Recommend opens recommendations for the highlighted node.
	Recommend key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Unrelated: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "unrelated"),
		),
		Partial: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "partial"),
		),
		Related: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "related"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Recommend: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "related nodes"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

// JudgeHelp returns keybindings for the judge view.
func (k *KeyMap) JudgeHelp() []key.Binding {
	return []key.Binding{k.Unrelated, k.Partial, k.Related, k.Skip, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Unrelated, k.Partial, k.Related, k.Skip},
		{k.Recommend, k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

// Rating returns the rating bound to keyStr, if any.
func (k *KeyMap) Rating(keyStr string) (float64, bool) {
	switch {
	case Matches(keyStr, k.Unrelated):
		return 0, true
	case Matches(keyStr, k.Partial):
		return 0.5, true
	case Matches(keyStr, k.Related):
		return 1, true
	default:
		return 0, false
	}
}
