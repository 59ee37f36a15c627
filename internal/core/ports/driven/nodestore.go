package driven

import (
	"context"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// NodeStore answers read-only queries over curriculum documents and nodes.
// Backed by SQL for production and memory for tests.
type NodeStore interface {
	// GetNode retrieves a node by ID.
	// Returns domain.ErrNotFound if the node does not exist.
	GetNode(ctx context.Context, id int64) (*domain.Node, error)

	// GetNodes retrieves several nodes by ID. Missing ids are skipped.
	GetNodes(ctx context.Context, ids []int64) (map[int64]*domain.Node, error)

	// QueryNodeIDs returns the ids of live nodes matching the query, ascending.
	// Returns domain.ErrNotFound if SubtreeRootID names a missing node.
	QueryNodeIDs(ctx context.Context, q domain.NodeQuery) ([]int64, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)

	// ListDocuments returns all documents ordered by ID.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}

// TreeImporter bulk-loads a document and its nodes.
// Nodes must carry computed paths, depths and child counts.
type TreeImporter interface {
	// ImportTree stores a document with its nodes in one transaction.
	// The document's SourceID must be unique; a duplicate is domain.ErrAlreadyExists.
	// Returns the stored document with its assigned ID. Node IDs are assigned
	// in slice order and written back into nodes.
	ImportTree(ctx context.Context, doc *domain.Document, nodes []domain.Node) (*domain.Document, error)
}
