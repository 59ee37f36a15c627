package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for _, c := range []lipgloss.Color{
		theme.Accent, theme.Highlight, theme.Text, theme.Dim, theme.Panel,
		theme.Border, theme.Good, theme.Partial, theme.Bad, theme.Background,
	} {
		assert.NotEmpty(t, string(c))
	}
}

func TestDefaultTheme_RatingColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	assert.NotEqual(t, theme.Good, theme.Partial)
	assert.NotEqual(t, theme.Partial, theme.Bad)
	assert.NotEqual(t, theme.Good, theme.Bad)
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_Rating(t *testing.T) {
	s := DefaultStyles()
	theme := s.Theme()

	assert.Equal(t, theme.Good, s.Rating(1).GetForeground())
	assert.Equal(t, theme.Partial, s.Rating(0.5).GetForeground())
	assert.Equal(t, theme.Bad, s.Rating(0).GetForeground())
}

func TestStyles_Score(t *testing.T) {
	s := DefaultStyles()
	theme := s.Theme()

	assert.Equal(t, theme.Good, s.Score(0.9).GetForeground())
	assert.Equal(t, theme.Partial, s.Score(0.5).GetForeground())
	assert.Equal(t, theme.Dim, s.Score(0.1).GetForeground())
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Title.Render("alignpro"), "alignpro")
	assert.Contains(t, s.Card.Render("node"), "node")
}
