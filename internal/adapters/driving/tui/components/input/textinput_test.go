package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeInput(t *testing.T) {
	in := NewNodeInput(nil, "Node:")

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
	assert.True(t, in.Focused())
	assert.Empty(t, in.Value())
	assert.NotNil(t, in.Init())
}

func TestNodeInput_NodeID(t *testing.T) {
	tests := []struct {
		value  string
		wantID int64
		wantOK bool
	}{
		{"42", 42, true},
		{" 7 ", 7, true},
		{"", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			in := NewNodeInput(nil, "Node:")
			in.SetValue(tt.value)
			id, ok := in.NodeID()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestNodeInput_TypingDigits(t *testing.T) {
	in := NewNodeInput(nil, "Node:")

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})

	id, ok := in.NodeID()
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)
}

func TestNodeInput_FocusAndReset(t *testing.T) {
	in := NewNodeInput(nil, "Node:")

	in.Blur()
	assert.False(t, in.Focused())
	in.Focus()
	assert.True(t, in.Focused())

	in.SetValue("9")
	in.Reset()
	assert.Empty(t, in.Value())
}

func TestNodeInput_View(t *testing.T) {
	in := NewNodeInput(nil, "Target:")
	assert.Contains(t, in.View(), "Target:")
}
