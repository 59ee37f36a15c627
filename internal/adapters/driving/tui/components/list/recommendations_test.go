package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learningequality/alignpro/internal/core/domain"
)

func testItems() []domain.Recommendation {
	return []domain.Recommendation{
		{NodeID: 11, Score: 0.91, Node: &domain.Node{ID: 11, Identifier: "2.1", Title: "Fractions"}},
		{NodeID: 12, Score: 0.55, Node: &domain.Node{ID: 12, Title: "Decimals"}},
		{NodeID: 13, Score: 0.12},
	}
}

func TestNewRecommendationList(t *testing.T) {
	l := NewRecommendationList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedItem())
	assert.Nil(t, l.Init())
}

func TestRecommendationList_Navigation(t *testing.T) {
	l := NewRecommendationList(nil)
	l.SetItems(testItems())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())

	require.NotNil(t, l.SelectedItem())
	assert.Equal(t, int64(12), l.SelectedItem().NodeID)
}

func TestRecommendationList_SetSelected(t *testing.T) {
	l := NewRecommendationList(nil)
	l.SetItems(testItems())

	l.SetSelected(2)
	assert.Equal(t, 2, l.Selected())
	l.SetSelected(5)
	assert.Equal(t, 2, l.Selected())
	l.SetSelected(-1)
	assert.Equal(t, 2, l.Selected())

	l.SetItems(testItems()[:1])
	assert.Equal(t, 0, l.Selected())
}

func TestRecommendationList_View(t *testing.T) {
	l := NewRecommendationList(nil)
	assert.Contains(t, l.View(), "No recommendations")

	l.SetItems(testItems())
	l.SetDimensions(100, 20)
	view := l.View()

	assert.Contains(t, view, "Recommendations (3)")
	assert.Contains(t, view, "[11] 2.1 Fractions")
	assert.Contains(t, view, "[13]")
	assert.Contains(t, view, "0.910")
}

func TestRecommendationList_View_Scrolls(t *testing.T) {
	l := NewRecommendationList(nil)
	l.SetItems(testItems())
	l.SetDimensions(100, 4)
	l.SetSelected(2)

	view := l.View()
	assert.Contains(t, view, "[13]")
	assert.NotContains(t, view, "Fractions")
}
