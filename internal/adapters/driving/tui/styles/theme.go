// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	Accent     lipgloss.Color
	Highlight  lipgloss.Color
	Text       lipgloss.Color
	Dim        lipgloss.Color
	Panel      lipgloss.Color
	Border     lipgloss.Color
	Good       lipgloss.Color
	Partial    lipgloss.Color
	Bad        lipgloss.Color
	Background lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#2E86AB"),
		Highlight:  lipgloss.Color("#F18F01"),
		Text:       lipgloss.Color("#E8E8E8"),
		Dim:        lipgloss.Color("#7A7A85"),
		Panel:      lipgloss.Color("#20232A"),
		Border:     lipgloss.Color("#3C4048"),
		Good:       lipgloss.Color("#3BB273"),
		Partial:    lipgloss.Color("#E1BC29"),
		Bad:        lipgloss.Color("#E15554"),
		Background: lipgloss.Color("#16181D"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	// Card frames one node of a pair.
	Card lipgloss.Style

	// InputField frames text inputs.
	InputField lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Highlight),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Dim),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Background).Background(theme.Highlight),
		Error:    lipgloss.NewStyle().Foreground(theme.Bad),
		Success:  lipgloss.NewStyle().Foreground(theme.Good),
		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(theme.Dim).Background(theme.Panel).Padding(0, 1),
		Help:      lipgloss.NewStyle().Foreground(theme.Dim),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Rating returns the style for a judgment rating: related ratings render
// in the good colour, partial ones in the partial colour, the rest as bad.
func (s *Styles) Rating(rating float64) lipgloss.Style {
	switch {
	case rating >= 1:
		return lipgloss.NewStyle().Bold(true).Foreground(s.theme.Good)
	case rating > 0:
		return lipgloss.NewStyle().Bold(true).Foreground(s.theme.Partial)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(s.theme.Bad)
	}
}

// Score renders a relevance score, brighter for higher values.
func (s *Styles) Score(score float64) lipgloss.Style {
	switch {
	case score >= 0.75:
		return lipgloss.NewStyle().Foreground(s.theme.Good)
	case score >= 0.4:
		return lipgloss.NewStyle().Foreground(s.theme.Partial)
	default:
		return lipgloss.NewStyle().Foreground(s.theme.Dim)
	}
}
