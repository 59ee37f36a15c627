package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
)

// Ensure the stores implement the interfaces.
var (
	_ driven.JudgmentStore   = (*JudgmentStore)(nil)
	_ driven.EvaluationStore = (*EvaluationStore)(nil)
)

// JudgmentStore is an in-memory implementation of driven.JudgmentStore.
type JudgmentStore struct {
	mu        sync.RWMutex
	judgments []domain.Judgment
}

// NewJudgmentStore creates a new in-memory judgment store.
func NewJudgmentStore() *JudgmentStore {
	return &JudgmentStore{}
}

// SaveJudgment stores or replaces a judgment.
func (s *JudgmentStore) SaveJudgment(_ context.Context, j *domain.Judgment) error {
	if j == nil || j.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.judgments {
		if s.judgments[i].ID == j.ID {
			s.judgments[i] = *j
			return nil
		}
	}
	s.judgments = append(s.judgments, *j)
	return nil
}

// GetJudgment retrieves a judgment by ID.
func (s *JudgmentStore) GetJudgment(_ context.Context, id string) (*domain.Judgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.judgments {
		if j.ID == id {
			return &j, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListJudgments returns matching judgments, newest first.
func (s *JudgmentStore) ListJudgments(_ context.Context, f domain.JudgmentFilter) ([]domain.Judgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Judgment, 0)
	for _, j := range s.judgments {
		if f.NodeID != nil && j.Node1ID != *f.NodeID && j.Node2ID != *f.NodeID {
			continue
		}
		if f.UserID != "" && j.UserID != f.UserID {
			continue
		}
		if f.IsTestData != nil && j.IsTest() != *f.IsTestData {
			continue
		}
		out = append(out, j)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Leaderboard counts judgments per user, highest first.
// Judgments without a user are not counted.
func (s *JudgmentStore) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, j := range s.judgments {
		if j.UserID != "" {
			counts[j.UserID]++
		}
	}
	s.mu.RUnlock()

	entries := make([]domain.LeaderboardEntry, 0, len(counts))
	for user, n := range counts {
		entries = append(entries, domain.LeaderboardEntry{UserID: user, Count: n})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Count != entries[b].Count {
			return entries[a].Count > entries[b].Count
		}
		return entries[a].UserID < entries[b].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// EvaluationStore is an in-memory implementation of driven.EvaluationStore.
type EvaluationStore struct {
	mu     sync.RWMutex
	latest map[string]domain.ModelEvaluation
}

// NewEvaluationStore creates a new in-memory evaluation store.
func NewEvaluationStore() *EvaluationStore {
	return &EvaluationStore{latest: make(map[string]domain.ModelEvaluation)}
}

// SaveEvaluation stores an evaluation as the model's latest.
func (s *EvaluationStore) SaveEvaluation(_ context.Context, e *domain.ModelEvaluation) error {
	if e == nil || e.Model == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[e.Model] = *e
	return nil
}

// LatestEvaluation returns the most recent evaluation of a model.
func (s *EvaluationStore) LatestEvaluation(_ context.Context, model string) (*domain.ModelEvaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.latest[model]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}
