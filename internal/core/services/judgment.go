package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
	"github.com/learningequality/alignpro/internal/logger"
)

// Ensure JudgmentService implements the interface.
var _ driving.JudgmentService = (*JudgmentService)(nil)

// JudgmentService validates and records relevance judgments.
type JudgmentService struct {
	store          driven.JudgmentStore
	nodes          driven.NodeStore
	testProportion float64

	// Overridable in tests.
	now     func() time.Time
	float64 func() float64
}

// NewJudgmentService creates a judgment service. testProportion is the
// probability that a judgment without an explicit split joins the testing split.
func NewJudgmentService(store driven.JudgmentStore, nodes driven.NodeStore, testProportion float64) *JudgmentService {
	return &JudgmentService{
		store:          store,
		nodes:          nodes,
		testProportion: testProportion,
		now:            time.Now,
		float64:        rand.Float64,
	}
}

// Record validates and stores a judgment.
func (s *JudgmentService) Record(ctx context.Context, j domain.Judgment) (*domain.Judgment, error) {
	if err := validateJudgment(&j); err != nil {
		return nil, err
	}
	for _, id := range []int64{j.Node1ID, j.Node2ID} {
		if _, err := s.nodes.GetNode(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: node %d does not exist", domain.ErrInvalidInput, id)
			}
			return nil, fmt.Errorf("get node %d: %w", id, err)
		}
	}

	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Mode == "" {
		j.Mode = domain.JudgmentModeManual
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = s.now().UTC()
	}
	if j.IsTestData == nil {
		isTest := s.float64() < s.testProportion
		j.IsTestData = &isTest
	}

	if err := s.store.SaveJudgment(ctx, &j); err != nil {
		return nil, fmt.Errorf("save judgment: %w", err)
	}
	logger.Debug("Recorded judgment %s: %d ~ %d = %.2f (test=%t)", j.ID, j.Node1ID, j.Node2ID, j.Rating, *j.IsTestData)
	return &j, nil
}

func validateJudgment(j *domain.Judgment) error {
	if j.Node1ID == j.Node2ID {
		return fmt.Errorf("%w: a node cannot be judged against itself", domain.ErrInvalidInput)
	}
	if !domain.IsFinite(j.Rating) || j.Rating < 0 || j.Rating > 1 {
		return fmt.Errorf("%w: rating must be between 0 and 1, got %v", domain.ErrInvalidInput, j.Rating)
	}
	if c := j.Confidence; c != nil && (!domain.IsFinite(*c) || *c < 0 || *c > 1) {
		return fmt.Errorf("%w: confidence must be between 0 and 1, got %v", domain.ErrInvalidInput, *c)
	}
	if j.Mode != "" && !j.Mode.IsValid() {
		return fmt.Errorf("%w: unknown judgment mode %q", domain.ErrInvalidInput, j.Mode)
	}
	return nil
}

// List returns judgments matching the filter.
func (s *JudgmentService) List(ctx context.Context, filter domain.JudgmentFilter) ([]domain.Judgment, error) {
	judgments, err := s.store.ListJudgments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list judgments: %w", err)
	}
	return judgments, nil
}

// Leaderboard counts judgments per user.
func (s *JudgmentService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	entries, err := s.store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}
