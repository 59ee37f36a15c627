package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
	"github.com/learningequality/alignpro/internal/logger"
)

// Ensure RecommendService implements the interface.
var _ driving.RecommendService = (*RecommendService)(nil)

// RecommendService ranks nodes by predicted relevance to a target.
type RecommendService struct {
	models ModelLoader
	nodes  driven.NodeStore
}

// NewRecommendService creates a recommendation service.
func NewRecommendService(models ModelLoader, nodes driven.NodeStore) *RecommendService {
	return &RecommendService{models: models, nodes: nodes}
}

// Recommend returns nodes related to the target, best first.
func (s *RecommendService) Recommend(
	ctx context.Context, req domain.RecommendRequest,
) (*domain.RecommendResult, error) {
	logger.Section("Recommendation")

	if req.Count != nil && *req.Count < 0 {
		return nil, fmt.Errorf("%w: count must be >= 0, got %d", domain.ErrInvalidInput, *req.Count)
	}
	if req.Threshold != nil && !domain.IsFinite(*req.Threshold) {
		return nil, fmt.Errorf("%w: threshold must be finite", domain.ErrInvalidInput)
	}

	artifact, err := s.models.Load(ctx, req.Model)
	if err != nil {
		return nil, err
	}

	target, ok := artifact.RowOf(req.TargetID)
	if !ok {
		return nil, fmt.Errorf("%w: node %d is not in model %q", domain.ErrUnknownNode, req.TargetID, artifact.Name())
	}

	items := rankRow(artifact, target, !req.IncludeSameDocument)
	logger.Debug("Ranked %d candidates for node %d", len(items), req.TargetID)

	if req.Threshold != nil {
		items = aboveThreshold(items, *req.Threshold)
	}
	total := len(items)
	if req.Count != nil && *req.Count < len(items) {
		items = items[:*req.Count]
	}

	result := &domain.RecommendResult{
		Model: artifact.Name(),
		Items: items,
		Total: total,
	}
	s.hydrate(ctx, artifact, target, result)
	return result, nil
}

// rankRow sorts a target's relevance row by descending score, ties by row.
// The target row is never included.
func rankRow(artifact *domain.ModelArtifact, target int, excludeSameDocument bool) []domain.Recommendation {
	targetDoc := artifact.Meta(target).DocumentID
	row := artifact.Row(target)

	items := make([]domain.Recommendation, 0, len(row))
	for col, score := range row {
		if col == target {
			continue
		}
		if excludeSameDocument && artifact.Meta(col).DocumentID == targetDoc {
			continue
		}
		items = append(items, domain.Recommendation{
			NodeID: artifact.IDAt(col),
			Row:    col,
			Score:  score,
		})
	}

	// NaN scores sort last so the order stays total.
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := items[i].Score, items[j].Score
		ni, nj := math.IsNaN(si), math.IsNaN(sj)
		if ni != nj {
			return nj
		}
		if !ni && si != sj {
			return si > sj
		}
		return items[i].Row < items[j].Row
	})
	return items
}

// aboveThreshold keeps the prefix of sorted items scoring above t.
func aboveThreshold(items []domain.Recommendation, t float64) []domain.Recommendation {
	n := sort.Search(len(items), func(i int) bool { return !(items[i].Score > t) })
	return items[:n]
}

// hydrate fills in the target echo and result nodes from the store.
// Nodes missing from the store are left nil; the target falls back to a
// stub built from the artifact node table.
func (s *RecommendService) hydrate(
	ctx context.Context, artifact *domain.ModelArtifact, target int, result *domain.RecommendResult,
) {
	meta := artifact.Meta(target)
	ids := make([]int64, 0, len(result.Items)+1)
	ids = append(ids, meta.ID)
	for _, it := range result.Items {
		ids = append(ids, it.NodeID)
	}

	nodes, err := s.nodes.GetNodes(ctx, ids)
	if err != nil {
		logger.Warn("Failed to hydrate recommendation nodes: %v", err)
		nodes = nil
	}

	if n, ok := nodes[meta.ID]; ok {
		result.Target = n
	} else {
		numChild := 0
		if !meta.IsLeaf {
			numChild = 1
		}
		result.Target = &domain.Node{ID: meta.ID, DocumentID: meta.DocumentID, NumChild: numChild}
	}
	for i := range result.Items {
		result.Items[i].Node = nodes[result.Items[i].NodeID]
	}
}
