// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/learningequality/alignpro/internal/adapters/driving/tui/styles"
	"github.com/learningequality/alignpro/internal/core/domain"
)

// RecommendationList displays ranked recommendations in a navigable list.
type RecommendationList struct {
	items    []domain.Recommendation
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecommendationList creates a new recommendation list component.
func NewRecommendationList(s *styles.Styles) *RecommendationList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecommendationList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *RecommendationList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecommendationList) Update(msg tea.Msg) (*RecommendationList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list.
func (r *RecommendationList) View() string {
	if len(r.items) == 0 {
		return r.styles.Muted.Render("No recommendations")
	}

	lines := make([]string, 0, len(r.items)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Recommendations (%d)", len(r.items))), "")

	visible := r.height - 3
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.items))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderItem(i, &r.items[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *RecommendationList) renderItem(index int, item *domain.Recommendation) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	label := fmt.Sprintf("[%d]", item.NodeID)
	if item.Node != nil {
		label = fmt.Sprintf("[%d] %s", item.NodeID, item.Node.String())
	}

	maxLen := r.width - 12
	if maxLen < 10 {
		maxLen = 10
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}

	score := r.styles.Score(item.Score).Render(fmt.Sprintf("%.3f", item.Score))
	if index == r.selected {
		return r.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, maxLen, label)) + "  " + score
	}
	return r.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, maxLen, label)) + "  " + score
}

// SetItems replaces the list contents and resets the selection.
func (r *RecommendationList) SetItems(items []domain.Recommendation) {
	r.items = items
	r.selected = 0
}

// Items returns the current items.
func (r *RecommendationList) Items() []domain.Recommendation {
	return r.items
}

// Selected returns the index of the selected item.
func (r *RecommendationList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RecommendationList) SetSelected(index int) {
	if index >= 0 && index < len(r.items) {
		r.selected = index
	}
}

// SelectedItem returns the selected item, or nil if the list is empty.
func (r *RecommendationList) SelectedItem() *domain.Recommendation {
	if r.selected < 0 || r.selected >= len(r.items) {
		return nil
	}
	return &r.items[r.selected]
}

// MoveUp moves selection up.
func (r *RecommendationList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecommendationList) MoveDown() {
	if r.selected < len(r.items)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecommendationList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of items.
func (r *RecommendationList) Count() int {
	return len(r.items)
}
