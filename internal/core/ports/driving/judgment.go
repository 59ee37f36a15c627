package driving

import (
	"context"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// JudgmentService records and reads human relevance judgments.
type JudgmentService interface {
	// Record validates and stores a judgment, assigning its ID, creation
	// time and test split when unset.
	Record(ctx context.Context, j domain.Judgment) (*domain.Judgment, error)

	// List returns judgments matching the filter.
	List(ctx context.Context, filter domain.JudgmentFilter) ([]domain.Judgment, error)

	// Leaderboard counts judgments per user.
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// EvaluationService scores trained models against human judgments.
type EvaluationService interface {
	// Evaluate computes and stores metrics for a model.
	Evaluate(ctx context.Context, model string) (*domain.ModelEvaluation, error)

	// Latest returns the last stored evaluation of a model.
	Latest(ctx context.Context, model string) (*domain.ModelEvaluation, error)

	// EvaluateStale evaluates every model whose version differs from its
	// last stored evaluation. Returns the number of models evaluated.
	EvaluateStale(ctx context.Context) (int, error)
}

// NodeService reads curriculum nodes and imports trees.
type NodeService interface {
	// Get retrieves a node by ID.
	Get(ctx context.Context, id int64) (*domain.Node, error)

	// Documents lists all documents.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Import stores a nested tree, computing paths, depths and child counts.
	Import(ctx context.Context, tree domain.TreeDocument) (*domain.Document, int, error)
}
