package driving

import (
	"context"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// PairService picks the next pair of nodes for an annotator to judge.
type PairService interface {
	// NextPair draws one pair under the request's policy and constraints.
	// Returns domain.ErrNoEligibleCandidates when the constraints leave nothing to draw.
	NextPair(ctx context.Context, req domain.PairRequest) (*domain.SampledPair, error)
}

// RecommendService ranks nodes related to a target node.
type RecommendService interface {
	// Recommend returns related nodes sorted by descending relevance.
	// Returns domain.ErrUnknownNode if the target is not covered by the model.
	Recommend(ctx context.Context, req domain.RecommendRequest) (*domain.RecommendResult, error)
}

// ModelService exposes the available trained models.
type ModelService interface {
	// List describes every available model.
	List(ctx context.Context) ([]domain.ModelInfo, error)

	// Info describes one model, loading it to report its row count.
	Info(ctx context.Context, name string) (domain.ModelInfo, error)

	// Invalidate drops any cached copy of a model.
	Invalidate(name string)

	// DefaultModel returns the model used when a request names none.
	DefaultModel() string
}
