package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// mockPairService records requests and returns a fixed pair.
type mockPairService struct {
	requests []domain.PairRequest
	err      error
}

func (m *mockPairService) NextPair(_ context.Context, req domain.PairRequest) (*domain.SampledPair, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SampledPair{
		Model:       "baseline",
		Policy:      req.Policy,
		Left:        1,
		Right:       2,
		LeftNode:    &domain.Node{ID: 1, Identifier: "MA.1", Title: "Counting"},
		RightNode:   &domain.Node{ID: 2, Title: "Numbers to ten"},
		Score:       0.75,
		Probability: 0.125,
	}, nil
}

type mockRecommendService struct {
	requests []domain.RecommendRequest
	items    []domain.Recommendation
	total    int
	err      error
}

func (m *mockRecommendService) Recommend(
	_ context.Context, req domain.RecommendRequest,
) (*domain.RecommendResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.RecommendResult{
		Model:  "baseline",
		Target: &domain.Node{ID: req.TargetID, Title: "Target"},
		Items:  m.items,
		Total:  m.total,
	}, nil
}

type mockModelService struct {
	infos []domain.ModelInfo
	err   error
}

func (m *mockModelService) List(context.Context) ([]domain.ModelInfo, error) {
	return m.infos, m.err
}

func (m *mockModelService) Info(_ context.Context, name string) (domain.ModelInfo, error) {
	if m.err != nil {
		return domain.ModelInfo{}, m.err
	}
	for _, info := range m.infos {
		if info.Name == name {
			return info, nil
		}
	}
	return domain.ModelInfo{}, domain.ErrArtifactNotFound
}

func (m *mockModelService) Invalidate(string) {}

func (m *mockModelService) DefaultModel() string { return "baseline" }

type mockJudgmentService struct {
	recorded    []domain.Judgment
	filters     []domain.JudgmentFilter
	judgments   []domain.Judgment
	leaderboard []domain.LeaderboardEntry
	testSplit   bool
	err         error
}

func (m *mockJudgmentService) Record(_ context.Context, j domain.Judgment) (*domain.Judgment, error) {
	m.recorded = append(m.recorded, j)
	if m.err != nil {
		return nil, m.err
	}
	j.ID = "0f3c2a9e-77aa-4c1e-9b00-123456789abc"
	isTest := m.testSplit
	j.IsTestData = &isTest
	j.CreatedAt = time.Now()
	return &j, nil
}

func (m *mockJudgmentService) List(_ context.Context, f domain.JudgmentFilter) ([]domain.Judgment, error) {
	m.filters = append(m.filters, f)
	return m.judgments, m.err
}

func (m *mockJudgmentService) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit > 0 && limit < len(m.leaderboard) {
		return m.leaderboard[:limit], m.err
	}
	return m.leaderboard, m.err
}

type mockEvaluationService struct {
	evaluated []string
	latest    *domain.ModelEvaluation
	err       error
}

func (m *mockEvaluationService) Evaluate(_ context.Context, model string) (*domain.ModelEvaluation, error) {
	m.evaluated = append(m.evaluated, model)
	if m.err != nil {
		return nil, m.err
	}
	return testEvaluation(model), nil
}

func (m *mockEvaluationService) Latest(_ context.Context, model string) (*domain.ModelEvaluation, error) {
	if m.latest == nil {
		return nil, domain.ErrNotFound
	}
	return m.latest, nil
}

func (m *mockEvaluationService) EvaluateStale(context.Context) (int, error) { return 0, nil }

func testEvaluation(model string) *domain.ModelEvaluation {
	return &domain.ModelEvaluation{
		Model:   model,
		Version: "v2",
		Training: domain.SplitMetrics{
			Judgments:      3,
			MeanPercentile: map[string]float64{"1": 92.5, "0": 40},
			RatingCounts:   map[string]int{"1": 2, "0": 1},
			PositiveNodes:  2,
			MeanBestRank:   1.5,
			MeanWorstRank:  4,
		},
		EvaluatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

type mockNodeService struct {
	nodes    map[int64]*domain.Node
	docs     []domain.Document
	imported []domain.TreeDocument
}

func (m *mockNodeService) Get(_ context.Context, id int64) (*domain.Node, error) {
	if n, ok := m.nodes[id]; ok {
		return n, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockNodeService) Documents(context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockNodeService) Import(_ context.Context, tree domain.TreeDocument) (*domain.Document, int, error) {
	m.imported = append(m.imported, tree)
	return &domain.Document{ID: 7, SourceID: tree.SourceID, Title: tree.Title}, 3, nil
}

type mockSettingsService struct {
	settings domain.AppSettings
	sets     [][2]string
	setErr   error
	validErr error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.sets = append(m.sets, [2]string{key, value})
	return m.setErr
}

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) Validate() error { return m.validErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	pairs       *mockPairService
	recommend   *mockRecommendService
	models      *mockModelService
	judgments   *mockJudgmentService
	evaluations *mockEvaluationService
	nodes       *mockNodeService
	settings    *mockSettingsService
}

// setupTestServices installs fresh mocks and restores nil services when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		pairs:       &mockPairService{},
		recommend:   &mockRecommendService{},
		models:      &mockModelService{},
		judgments:   &mockJudgmentService{},
		evaluations: &mockEvaluationService{},
		nodes:       &mockNodeService{nodes: map[int64]*domain.Node{}},
		settings:    &mockSettingsService{settings: domain.DefaultAppSettings()},
	}
	SetServices(Services{
		Pairs:       ts.pairs,
		Recommend:   ts.recommend,
		Models:      ts.models,
		Judgments:   ts.judgments,
		Evaluations: ts.evaluations,
		Nodes:       ts.nodes,
		Settings:    ts.settings,
	})
	t.Cleanup(func() { SetServices(Services{}) })
	return ts
}

// resetFlags restores every flag in the tree to its default. Cobra keeps
// flag values between Execute calls on the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
