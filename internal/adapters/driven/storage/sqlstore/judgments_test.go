package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learningequality/alignpro/internal/core/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestJudgmentStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	_, nodes := importTestTree(t, store, "ke-math", false)
	js := store.JudgmentStore()

	confidence := 0.8
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	j := &domain.Judgment{
		ID:            "j-1",
		Node1ID:       nodes[2].ID,
		Node2ID:       nodes[3].ID,
		Rating:        domain.RatingPartial,
		Confidence:    &confidence,
		Mode:          domain.JudgmentModeRapid,
		UIName:        "tui",
		UIVersionHash: "abc",
		UserID:        "amina",
		IsTestData:    boolPtr(true),
		ExtraFields:   map[string]any{"model": "baseline"},
		CreatedAt:     created,
	}
	require.NoError(t, js.SaveJudgment(ctx, j))

	got, err := js.GetJudgment(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, j, got)
}

func TestJudgmentStore_SaveReplaces(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	_, nodes := importTestTree(t, store, "ke-math", false)
	js := store.JudgmentStore()

	j := &domain.Judgment{ID: "j-1", Node1ID: nodes[2].ID, Node2ID: nodes[3].ID,
		Rating: domain.RatingRelated, Mode: domain.JudgmentModeManual, CreatedAt: time.Now()}
	require.NoError(t, js.SaveJudgment(ctx, j))

	j.Rating = domain.RatingUnrelated
	require.NoError(t, js.SaveJudgment(ctx, j))

	got, err := js.GetJudgment(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnrelated, got.Rating)
	assert.Nil(t, got.Confidence)
	assert.Nil(t, got.IsTestData)
	assert.Nil(t, got.ExtraFields)
}

func TestJudgmentStore_Errors(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	js := store.JudgmentStore()

	assert.ErrorIs(t, js.SaveJudgment(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, js.SaveJudgment(ctx, &domain.Judgment{}), domain.ErrInvalidInput)

	_, err := js.GetJudgment(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Foreign keys are enforced.
	err = js.SaveJudgment(ctx, &domain.Judgment{ID: "orphan", Node1ID: 998, Node2ID: 999,
		Mode: domain.JudgmentModeManual, CreatedAt: time.Now()})
	assert.Error(t, err)
}

func TestJudgmentStore_ListJudgments(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	_, nodes := importTestTree(t, store, "ke-math", false)
	js := store.JudgmentStore()
	a, b, c := nodes[1].ID, nodes[2].ID, nodes[3].ID
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, j := range []domain.Judgment{
		{ID: "1", Node1ID: a, Node2ID: b, UserID: "amina", IsTestData: boolPtr(false)},
		{ID: "2", Node1ID: b, Node2ID: c, UserID: "kofi", IsTestData: boolPtr(true)},
		{ID: "3", Node1ID: a, Node2ID: c, UserID: "amina"},
		{ID: "4", Node1ID: c, Node2ID: a, UserID: "amina", IsTestData: boolPtr(true)},
	} {
		j.Mode = domain.JudgmentModeManual
		j.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, js.SaveJudgment(ctx, &j))
	}

	listIDs := func(f domain.JudgmentFilter) []string {
		t.Helper()
		got, err := js.ListJudgments(ctx, f)
		require.NoError(t, err)
		out := make([]string, len(got))
		for i, j := range got {
			out[i] = j.ID
		}
		return out
	}

	assert.Equal(t, []string{"4", "3", "2", "1"}, listIDs(domain.JudgmentFilter{}))
	assert.Equal(t, []string{"4", "3", "1"}, listIDs(domain.JudgmentFilter{NodeID: &a}))
	assert.Equal(t, []string{"2"}, listIDs(domain.JudgmentFilter{UserID: "kofi"}))
	assert.Equal(t, []string{"4", "2"}, listIDs(domain.JudgmentFilter{IsTestData: boolPtr(true)}))
	assert.Equal(t, []string{"3", "1"}, listIDs(domain.JudgmentFilter{IsTestData: boolPtr(false)}))
	assert.Equal(t, []string{"4", "3"}, listIDs(domain.JudgmentFilter{Limit: 2}))
	assert.Equal(t, []string{"3", "1"}, listIDs(domain.JudgmentFilter{UserID: "amina", IsTestData: boolPtr(false)}))
}

func TestJudgmentStore_Leaderboard(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	_, nodes := importTestTree(t, store, "ke-math", false)
	js := store.JudgmentStore()

	users := []string{"kofi", "amina", "amina", "", "zawadi", "kofi", "amina"}
	for i, user := range users {
		require.NoError(t, js.SaveJudgment(ctx, &domain.Judgment{
			ID: string(rune('a' + i)), Node1ID: nodes[2].ID, Node2ID: nodes[3].ID,
			UserID: user, Mode: domain.JudgmentModeRapid, CreatedAt: time.Now(),
		}))
	}

	entries, err := js.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.LeaderboardEntry{
		{UserID: "amina", Count: 3},
		{UserID: "kofi", Count: 2},
		{UserID: "zawadi", Count: 1},
	}, entries)

	entries, err = js.Leaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEvaluationStore(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	es := store.EvaluationStore()

	_, err := es.LatestEvaluation(ctx, "baseline")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, es.SaveEvaluation(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, es.SaveEvaluation(ctx, &domain.ModelEvaluation{}), domain.ErrInvalidInput)

	first := &domain.ModelEvaluation{
		Model:   "baseline",
		Version: "v1",
		Training: domain.SplitMetrics{
			Judgments:      4,
			MeanPercentile: map[string]float64{"0": 30, "1": 90},
			RatingCounts:   map[string]int{"0": 2, "1": 2},
			PositiveNodes:  2,
			MeanBestRank:   1.5,
			MeanWorstRank:  3,
		},
		EvaluatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, es.SaveEvaluation(ctx, first))

	got, err := es.LatestEvaluation(ctx, "baseline")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	second := *first
	second.Version = "v2"
	second.EvaluatedAt = first.EvaluatedAt.Add(time.Hour)
	require.NoError(t, es.SaveEvaluation(ctx, &second))

	// Re-evaluating v1 replaces its row and makes it the latest again.
	first.EvaluatedAt = second.EvaluatedAt.Add(time.Hour)
	first.Training.Judgments = 5
	require.NoError(t, es.SaveEvaluation(ctx, first))

	got, err = es.LatestEvaluation(ctx, "baseline")
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Version)
	assert.Equal(t, 5, got.Training.Judgments)

	var rows int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM model_evaluations").Scan(&rows))
	assert.Equal(t, 2, rows)
}
