package judge

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learningequality/alignpro/internal/adapters/driving/tui/messages"
	"github.com/learningequality/alignpro/internal/core/domain"
)

type mockPairs struct {
	pair     *domain.SampledPair
	err      error
	requests []domain.PairRequest
}

func (m *mockPairs) NextPair(_ context.Context, req domain.PairRequest) (*domain.SampledPair, error) {
	m.requests = append(m.requests, req)
	return m.pair, m.err
}

type mockJudgments struct {
	recorded []domain.Judgment
	err      error
}

func (m *mockJudgments) Record(_ context.Context, j domain.Judgment) (*domain.Judgment, error) {
	m.recorded = append(m.recorded, j)
	if m.err != nil {
		return nil, m.err
	}
	j.ID = "judgment-1"
	return &j, nil
}

func (m *mockJudgments) List(context.Context, domain.JudgmentFilter) ([]domain.Judgment, error) {
	return nil, nil
}

func (m *mockJudgments) Leaderboard(context.Context, int) ([]domain.LeaderboardEntry, error) {
	return nil, nil
}

func testPair() *domain.SampledPair {
	return &domain.SampledPair{
		Model:     "baseline",
		Policy:    domain.PolicyWeighted,
		Left:      11,
		Right:     22,
		LeftNode:  &domain.Node{ID: 11, Identifier: "1.2", Title: "Fractions", Kind: domain.NodeKindTopic, Depth: 2},
		RightNode: &domain.Node{ID: 22, Title: "Parts of a whole", Notes: "Halves and quarters"},
		Score:     0.8,
	}
}

func newTestView(pairs *mockPairs, judgments *mockJudgments) *View {
	settings := func() domain.AppSettings {
		s := domain.DefaultAppSettings()
		s.Sampling.Gamma = 7
		s.Sampling.IncludeNonLeaf = true
		return s
	}
	return NewView(nil, pairs, judgments, settings, "amina", "v1.2.3")
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// loaded returns a view that has already received its first pair.
func loaded(t *testing.T, pairs *mockPairs, judgments *mockJudgments) *View {
	t.Helper()
	v := newTestView(pairs, judgments)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	require.NotNil(t, v.Pair())
	return v
}

func TestNewView_Defaults(t *testing.T) {
	v := NewView(nil, nil, nil, nil, "", "")

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.NotNil(t, v.settings)
	assert.Nil(t, v.Init())
	assert.False(t, v.Busy())
}

func TestView_Init_UsesSamplingSettings(t *testing.T) {
	pairs := &mockPairs{pair: testPair()}
	v := newTestView(pairs, &mockJudgments{})

	cmd := v.Init()
	require.NotNil(t, cmd)
	assert.True(t, v.Busy())

	msg, ok := cmd().(messages.PairLoaded)
	require.True(t, ok)
	assert.NoError(t, msg.Err)

	require.Len(t, pairs.requests, 1)
	req := pairs.requests[0]
	assert.Equal(t, 7.0, req.Gamma)
	assert.True(t, req.IncludeNonLeaf)
	assert.Equal(t, domain.DefaultAppSettings().Sampling.Policy, req.Policy)

	v.Update(msg)
	assert.False(t, v.Busy())
	assert.Equal(t, int64(11), v.Pair().Left)
}

func TestView_RatingRecordsRapidJudgment(t *testing.T) {
	tests := []struct {
		key    rune
		rating float64
	}{
		{'0', domain.RatingUnrelated},
		{'1', domain.RatingPartial},
		{'2', domain.RatingRelated},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			pairs := &mockPairs{pair: testPair()}
			judgments := &mockJudgments{}
			v := loaded(t, pairs, judgments)

			_, cmd := v.Update(key(tt.key))
			require.NotNil(t, cmd)
			assert.True(t, v.Busy())

			msg, ok := cmd().(messages.JudgmentRecorded)
			require.True(t, ok)
			require.NoError(t, msg.Err)

			require.Len(t, judgments.recorded, 1)
			j := judgments.recorded[0]
			assert.Equal(t, int64(11), j.Node1ID)
			assert.Equal(t, int64(22), j.Node2ID)
			assert.Equal(t, tt.rating, j.Rating)
			assert.Equal(t, domain.JudgmentModeRapid, j.Mode)
			assert.Equal(t, UIName, j.UIName)
			assert.Equal(t, "v1.2.3", j.UIVersionHash)
			assert.Equal(t, "amina", j.UserID)
			assert.Equal(t, "baseline", j.ExtraFields["model"])

			// A recorded judgment draws the next pair.
			_, next := v.Update(msg)
			require.NotNil(t, next)
			assert.Equal(t, 1, v.Judged())
			_, ok = next().(messages.PairLoaded)
			assert.True(t, ok)
			assert.Len(t, pairs.requests, 2)
		})
	}
}

func TestView_RatingIgnoredWhileBusy(t *testing.T) {
	judgments := &mockJudgments{}
	v := loaded(t, &mockPairs{pair: testPair()}, judgments)

	_, cmd := v.Update(key('2'))
	require.NotNil(t, cmd)

	_, cmd = v.Update(key('2'))
	assert.Nil(t, cmd)
}

func TestView_RatingWithoutPair(t *testing.T) {
	v := newTestView(&mockPairs{}, &mockJudgments{})

	_, cmd := v.Update(key('1'))
	assert.Nil(t, cmd)
}

func TestView_RecordError(t *testing.T) {
	judgments := &mockJudgments{err: errors.New("database is locked")}
	v := loaded(t, &mockPairs{pair: testPair()}, judgments)

	_, cmd := v.Update(key('0'))
	require.NotNil(t, cmd)
	_, next := v.Update(cmd())

	assert.Nil(t, next)
	assert.False(t, v.Busy())
	assert.Equal(t, 0, v.Judged())
	assert.EqualError(t, v.Err(), "database is locked")
}

func TestView_Skip(t *testing.T) {
	pairs := &mockPairs{pair: testPair()}
	v := loaded(t, pairs, &mockJudgments{})

	_, cmd := v.Update(key('s'))
	require.NotNil(t, cmd)
	assert.True(t, v.Busy())
	v.Update(cmd())

	assert.Len(t, pairs.requests, 2)
	assert.Equal(t, 0, v.Judged())
	assert.Contains(t, v.View(), "Skipped")
}

func TestView_Recommend(t *testing.T) {
	v := loaded(t, &mockPairs{pair: testPair()}, &mockJudgments{})

	_, cmd := v.Update(key('r'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.RecommendRequested)
	require.True(t, ok)
	assert.Equal(t, int64(11), msg.NodeID)
}

func TestView_Back(t *testing.T) {
	v := newTestView(&mockPairs{}, &mockJudgments{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, msg.View)
}

func TestView_NoEligibleCandidates(t *testing.T) {
	v := newTestView(&mockPairs{err: domain.ErrNoEligibleCandidates}, &mockJudgments{})

	v.Update(v.Init()())

	assert.Nil(t, v.Pair())
	assert.ErrorIs(t, v.Err(), domain.ErrNoEligibleCandidates)
	view := v.View()
	assert.Contains(t, view, "no eligible candidates")
	assert.Contains(t, view, "hint: try relaxing constraints")
}

func TestView_View(t *testing.T) {
	v := loaded(t, &mockPairs{pair: testPair()}, &mockJudgments{})
	v.SetDimensions(140, 40)

	view := v.View()
	assert.Contains(t, view, "Judge pairs")
	assert.Contains(t, view, "[11]")
	assert.Contains(t, view, "1.2 Fractions")
	assert.Contains(t, view, "Parts of a whole")
	assert.Contains(t, view, "Halves and quarters")
	assert.Contains(t, view, "[2] related")
	assert.Contains(t, view, "model baseline")
}

func TestView_View_Loading(t *testing.T) {
	v := newTestView(&mockPairs{}, &mockJudgments{})
	assert.Contains(t, v.View(), "Drawing a pair...")
}

func TestRatingLabel(t *testing.T) {
	assert.Equal(t, "unrelated", ratingLabel(0))
	assert.Equal(t, "partial", ratingLabel(0.5))
	assert.Equal(t, "related", ratingLabel(1))
	assert.Equal(t, "0.25", ratingLabel(0.25))
}
