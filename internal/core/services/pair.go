package services

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
	"github.com/learningequality/alignpro/internal/logger"
)

// Ensure PairService implements the interface.
var _ driving.PairService = (*PairService)(nil)

// ModelLoader returns the current artifact for a model name.
// An empty name selects the default model.
type ModelLoader interface {
	Load(ctx context.Context, name string) (*domain.ModelArtifact, error)
}

// PairService schedules node pairs for annotation.
type PairService struct {
	models   ModelLoader
	nodes    driven.NodeStore
	resolver *RowResolver
}

// NewPairService creates a pair scheduling service.
func NewPairService(models ModelLoader, nodes driven.NodeStore) *PairService {
	return &PairService{
		models:   models,
		nodes:    nodes,
		resolver: NewRowResolver(nodes),
	}
}

// NextPair draws the next pair to judge.
func (s *PairService) NextPair(ctx context.Context, req domain.PairRequest) (*domain.SampledPair, error) {
	logger.Section("Pair Sampling")

	policy := req.Policy
	if policy == "" {
		policy = domain.PolicyWeighted
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("%w: unknown scheduler policy %q", domain.ErrInvalidInput, policy)
	}
	if policy == domain.PolicyWeighted && (!domain.IsFinite(req.Gamma) || req.Gamma < 0) {
		return nil, fmt.Errorf("%w: gamma must be a finite number >= 0, got %v", domain.ErrInvalidInput, req.Gamma)
	}

	artifact, err := s.models.Load(ctx, req.Model)
	if err != nil {
		return nil, err
	}
	rng := newRand(req.Seed)
	logger.Debug("Model: %s, policy: %s, gamma: %v", artifact.Name(), policy, req.Gamma)

	leftRows, err := s.resolver.Resolve(ctx, artifact, domain.RowFilter{
		SubtreeRootID: req.LeftRootID,
		LeafOnly:      !req.IncludeNonLeaf,
		PublishedOnly: req.PublishedOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve left candidates: %w", err)
	}
	logger.Debug("Left candidates: %d", leftRows.Len())
	if leftRows.Len() == 0 {
		return nil, fmt.Errorf("%w: no left candidates", domain.ErrNoEligibleCandidates)
	}

	left := leftRows[rng.IntN(leftRows.Len())]
	leftMeta := artifact.Meta(left)

	rightFilter := domain.RowFilter{
		SubtreeRootID: req.RightRootID,
		LeafOnly:      !req.IncludeNonLeaf,
		PublishedOnly: req.PublishedOnly,
	}
	if !req.AllowSameDocument {
		rightFilter.ExcludeDocumentID = &leftMeta.DocumentID
	}
	rightRows, err := s.resolver.Resolve(ctx, artifact, rightFilter)
	if err != nil {
		return nil, fmt.Errorf("resolve right candidates: %w", err)
	}
	logger.Debug("Right candidates: %d", rightRows.Len())

	var pair *domain.SampledPair
	switch policy {
	case domain.PolicyUniformRandom:
		pair, err = sampleUniform(artifact, left, rightRows, rng)
	default:
		pair, err = sampleWeighted(artifact, left, rightRows, req.Gamma, rng)
	}
	if err != nil {
		return nil, err
	}
	pair.Model = artifact.Name()
	pair.Policy = policy

	s.hydrate(ctx, pair)
	logger.Debug("Sampled pair %d -> %d (score %.4f, p %.4f)", pair.Left, pair.Right, pair.Score, pair.Probability)
	return pair, nil
}

// sampleWeighted draws the right row from the skewed relevance distribution.
func sampleWeighted(
	artifact *domain.ModelArtifact, left int, right domain.RowSet, gamma float64, rng *rand.Rand,
) (*domain.SampledPair, error) {
	weights := maskedWeights(artifact.Row(left), right.Mask(artifact.Len()))
	probs, fallback, err := skewWeights(weights, gamma)
	if err != nil {
		return nil, err
	}
	if fallback {
		logger.Warn("Skewed weights degenerated for gamma %v, using raw weights", gamma)
	}

	chosen := weightedChoice(probs, rng)
	return &domain.SampledPair{
		Left:         artifact.IDAt(left),
		Right:        artifact.IDAt(chosen),
		Score:        artifact.Score(left, chosen),
		Probability:  probs[chosen],
		TopWeights:   topWeights(probs, artifact),
		UsedFallback: fallback,
	}, nil
}

// sampleUniform draws the right row uniformly, never pairing a row with itself.
func sampleUniform(
	artifact *domain.ModelArtifact, left int, right domain.RowSet, rng *rand.Rand,
) (*domain.SampledPair, error) {
	eligible := make([]int, 0, right.Len())
	for _, r := range right {
		if r != left {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: no right candidates", domain.ErrNoEligibleCandidates)
	}

	chosen := eligible[rng.IntN(len(eligible))]
	return &domain.SampledPair{
		Left:        artifact.IDAt(left),
		Right:       artifact.IDAt(chosen),
		Score:       artifact.Score(left, chosen),
		Probability: 1 / float64(len(eligible)),
		TopWeights:  []domain.WeightEntry{},
	}, nil
}

// hydrate attaches live node records when the store has them.
func (s *PairService) hydrate(ctx context.Context, pair *domain.SampledPair) {
	nodes, err := s.nodes.GetNodes(ctx, []int64{pair.Left, pair.Right})
	if err != nil {
		logger.Warn("Failed to hydrate pair nodes: %v", err)
		return
	}
	pair.LeftNode = nodes[pair.Left]
	pair.RightNode = nodes[pair.Right]
}
