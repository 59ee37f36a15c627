package mcp

import (
	"context"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// mockPairService records the last request and returns a canned pair.
type mockPairService struct {
	pair *domain.SampledPair
	err  error
	last domain.PairRequest
}

func (m *mockPairService) NextPair(_ context.Context, req domain.PairRequest) (*domain.SampledPair, error) {
	m.last = req
	return m.pair, m.err
}

// mockModelService is a mock implementation of driving.ModelService.
type mockModelService struct {
	infos        []domain.ModelInfo
	defaultModel string
	err          error
}

func (m *mockModelService) List(_ context.Context) ([]domain.ModelInfo, error) {
	return m.infos, m.err
}

func (m *mockModelService) Info(_ context.Context, name string) (domain.ModelInfo, error) {
	for _, info := range m.infos {
		if info.Name == name {
			return info, nil
		}
	}
	return domain.ModelInfo{}, domain.ErrArtifactNotFound
}

func (m *mockModelService) Invalidate(string) {}

func (m *mockModelService) DefaultModel() string { return m.defaultModel }

// mockRecommendService records the last request.
type mockRecommendService struct {
	result *domain.RecommendResult
	err    error
	last   domain.RecommendRequest
}

func (m *mockRecommendService) Recommend(_ context.Context, req domain.RecommendRequest) (*domain.RecommendResult, error) {
	m.last = req
	return m.result, m.err
}

// mockJudgmentService echoes recorded judgments.
type mockJudgmentService struct {
	recorded []domain.Judgment
	err      error
}

func (m *mockJudgmentService) Record(_ context.Context, j domain.Judgment) (*domain.Judgment, error) {
	if m.err != nil {
		return nil, m.err
	}
	j.ID = "judgment-1"
	m.recorded = append(m.recorded, j)
	return &j, nil
}

func (m *mockJudgmentService) List(_ context.Context, _ domain.JudgmentFilter) ([]domain.Judgment, error) {
	return m.recorded, m.err
}

func (m *mockJudgmentService) Leaderboard(_ context.Context, _ int) ([]domain.LeaderboardEntry, error) {
	return nil, m.err
}

// mockNodeService serves nodes from a map.
type mockNodeService struct {
	nodes map[int64]*domain.Node
	err   error
}

func (m *mockNodeService) Get(_ context.Context, id int64) (*domain.Node, error) {
	if m.err != nil {
		return nil, m.err
	}
	n, ok := m.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return n, nil
}

func (m *mockNodeService) Documents(_ context.Context) ([]domain.Document, error) {
	return nil, m.err
}

func (m *mockNodeService) Import(_ context.Context, _ domain.TreeDocument) (*domain.Document, int, error) {
	return nil, 0, m.err
}

// mockSettingsService returns fixed settings.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(*domain.AppSettings) error { return m.err }

func (m *mockSettingsService) Set(string, string) error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
