package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learningequality/alignpro/internal/core/domain"
)

func TestResolveRows(t *testing.T) {
	a := buildArtifact(t, "m",
		[]int64{10, 20, 30, 40},
		[]int64{1, 1, 2, 2},
		[]bool{false, true, true, true},
		make([]float64, 16))

	tests := []struct {
		name     string
		ids      []int64
		filter   domain.RowFilter
		expected domain.RowSet
	}{
		{"all known", []int64{40, 10, 30}, domain.RowFilter{}, domain.RowSet{0, 2, 3}},
		{"unknown ids dropped", []int64{99, 20, 77}, domain.RowFilter{}, domain.RowSet{1}},
		{"leaf only", []int64{10, 20, 30}, domain.RowFilter{LeafOnly: true}, domain.RowSet{1, 2}},
		{"exclude document", []int64{10, 20, 30, 40}, domain.RowFilter{ExcludeDocumentID: ptr(int64(1))}, domain.RowSet{2, 3}},
		{"duplicates collapse", []int64{30, 30, 30}, domain.RowFilter{}, domain.RowSet{2}},
		{"empty", nil, domain.RowFilter{}, domain.RowSet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRows(tt.ids, a, tt.filter)
			assert.Equal(t, tt.expected.Len(), got.Len())
			for _, r := range tt.expected {
				assert.True(t, got.Contains(r), "row %d", r)
			}
		})
	}
}

func TestRowResolver_Resolve(t *testing.T) {
	a := threeNodeArtifact(t)
	r := NewRowResolver(threeNodeStore())
	ctx := context.Background()

	rows, err := r.Resolve(ctx, a, domain.RowFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, rows.Len())

	rows, err = r.Resolve(ctx, a, domain.RowFilter{SubtreeRootID: ptr(nodeB)})
	require.NoError(t, err)
	require.Equal(t, 1, rows.Len())
	assert.True(t, rows.Contains(1))

	_, err = r.Resolve(ctx, a, domain.RowFilter{SubtreeRootID: ptr(int64(999))})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRowResolver_Resolve_NodesOutsideArtifact(t *testing.T) {
	a := threeNodeArtifact(t)
	store := threeNodeStore()
	store.PutNode(domain.Node{ID: 500, DocumentID: 1, Path: "0002", Depth: 1})

	rows, err := NewRowResolver(store).Resolve(context.Background(), a, domain.RowFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, rows.Len())
}
