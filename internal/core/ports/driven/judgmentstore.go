package driven

import (
	"context"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// JudgmentStore persists human relevance judgments.
type JudgmentStore interface {
	// SaveJudgment stores a judgment. The ID must be set.
	SaveJudgment(ctx context.Context, j *domain.Judgment) error

	// GetJudgment retrieves a judgment by ID.
	GetJudgment(ctx context.Context, id string) (*domain.Judgment, error)

	// ListJudgments returns judgments matching the filter, newest first.
	ListJudgments(ctx context.Context, filter domain.JudgmentFilter) ([]domain.Judgment, error)

	// Leaderboard counts judgments per user, highest first.
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// EvaluationStore persists model evaluation results.
type EvaluationStore interface {
	// SaveEvaluation stores an evaluation, replacing any for the same model and version.
	SaveEvaluation(ctx context.Context, e *domain.ModelEvaluation) error

	// LatestEvaluation returns the most recent evaluation of a model.
	// Returns domain.ErrNotFound if the model was never evaluated.
	LatestEvaluation(ctx context.Context, model string) (*domain.ModelEvaluation, error)
}
