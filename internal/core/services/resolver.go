package services

import (
	"context"
	"fmt"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
)

// RowResolver maps live node ids to artifact rows.
type RowResolver struct {
	nodes driven.NodeStore
}

// NewRowResolver creates a resolver over a node store.
func NewRowResolver(nodes driven.NodeStore) *RowResolver {
	return &RowResolver{nodes: nodes}
}

// Resolve queries the node store for candidates and maps them to rows.
// A subtree root missing from the store is domain.ErrNotFound.
// An empty result is not an error.
func (r *RowResolver) Resolve(
	ctx context.Context, artifact *domain.ModelArtifact, filter domain.RowFilter,
) (domain.RowSet, error) {
	ids, err := r.nodes.QueryNodeIDs(ctx, domain.NodeQuery{
		SubtreeRootID: filter.SubtreeRootID,
		LeafOnly:      filter.LeafOnly,
		PublishedOnly: filter.PublishedOnly,
	})
	if err != nil {
		if filter.SubtreeRootID != nil {
			return nil, fmt.Errorf("query subtree %d: %w", *filter.SubtreeRootID, err)
		}
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	return ResolveRows(ids, artifact, filter), nil
}

// ResolveRows intersects candidate ids with the artifact index.
// Ids absent from the index are dropped. LeafOnly and ExcludeDocumentID are
// checked against the artifact node table.
func ResolveRows(candidateIDs []int64, artifact *domain.ModelArtifact, filter domain.RowFilter) domain.RowSet {
	rows := make([]int, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		row, ok := artifact.RowOf(id)
		if !ok {
			continue
		}
		meta := artifact.Meta(row)
		if filter.LeafOnly && !meta.IsLeaf {
			continue
		}
		if filter.ExcludeDocumentID != nil && meta.DocumentID == *filter.ExcludeDocumentID {
			continue
		}
		rows = append(rows, row)
	}
	return domain.NewRowSet(rows)
}
