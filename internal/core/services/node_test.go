package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learningequality/alignpro/internal/adapters/driven/storage/memory"
	"github.com/learningequality/alignpro/internal/core/domain"
)

func sampleTree() domain.TreeDocument {
	return domain.TreeDocument{
		SourceID: "ke-math-2019",
		Title:    "Kenya Mathematics",
		Country:  "KE",
		Children: []domain.TreeNode{
			{
				Kind:  domain.NodeKindLevel,
				Title: "Grade 1",
				Children: []domain.TreeNode{
					{Identifier: "1.1", Title: "Numbers"},
					{Identifier: "1.2", Title: "Measurement"},
				},
			},
			{Title: "Grade 2", Children: []domain.TreeNode{{Title: "Fractions"}}},
		},
	}
}

func TestFlattenTree(t *testing.T) {
	nodes, err := FlattenTree(sampleTree())
	require.NoError(t, err)
	require.Len(t, nodes, 6)

	paths := make([]string, len(nodes))
	for i, n := range nodes {
		paths[i] = n.Path
	}
	assert.Equal(t, []string{
		"0001",
		"00010001",
		"000100010001",
		"000100010002",
		"00010002",
		"000100020001",
	}, paths)

	root := nodes[0]
	assert.Equal(t, domain.NodeKindDocument, root.Kind)
	assert.Equal(t, 1, root.Depth)
	assert.Equal(t, 2, root.NumChild)
	assert.Equal(t, "Kenya Mathematics", root.Title)

	assert.Equal(t, domain.NodeKindLevel, nodes[1].Kind)
	assert.Equal(t, domain.NodeKindUnit, nodes[2].Kind, "childless nodes default to units")
	assert.Equal(t, "1.1", nodes[2].Identifier)
	assert.Equal(t, 3, nodes[2].Depth)
	assert.InDelta(t, 2, nodes[3].SortOrder, 0)
	assert.Equal(t, domain.NodeKindTopic, nodes[4].Kind, "parents default to topics")
}

func TestFlattenTree_Invalid(t *testing.T) {
	_, err := FlattenTree(domain.TreeDocument{Children: []domain.TreeNode{{Kind: "chapter"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	wide := make([]domain.TreeNode, domain.MaxPathChildren+1)
	_, err = FlattenTree(domain.TreeDocument{Children: wide})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNodeService_Import(t *testing.T) {
	store := memory.NewNodeStore()
	svc := NewNodeService(store, store)
	ctx := context.Background()

	doc, n, err := svc.Import(ctx, sampleTree())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "ke-math-2019", doc.SourceID)
	assert.Equal(t, "KE", doc.Country)

	docs, err := svc.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	ids, err := store.QueryNodeIDs(ctx, domain.NodeQuery{LeafOnly: true})
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	node, err := svc.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Numbers", node.Title)
	assert.Equal(t, doc.ID, node.DocumentID)

	_, _, err = svc.Import(ctx, sampleTree())
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestNodeService_Import_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := NewNodeService(memory.NewNodeStore(), nil).Import(ctx, sampleTree())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	store := memory.NewNodeStore()
	_, _, err = NewNodeService(store, store).Import(ctx, domain.TreeDocument{Title: "untitled"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewNodeService(store, store).Get(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
