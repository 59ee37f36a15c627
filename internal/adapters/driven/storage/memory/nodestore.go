package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
)

// Ensure NodeStore implements the interfaces.
var (
	_ driven.NodeStore    = (*NodeStore)(nil)
	_ driven.TreeImporter = (*NodeStore)(nil)
)

// NodeStore is an in-memory implementation of driven.NodeStore.
type NodeStore struct {
	mu        sync.RWMutex
	documents map[int64]domain.Document
	nodes     map[int64]domain.Node
	nextDoc   int64
	nextNode  int64
}

// NewNodeStore creates a new in-memory node store.
func NewNodeStore() *NodeStore {
	return &NodeStore{
		documents: make(map[int64]domain.Document),
		nodes:     make(map[int64]domain.Node),
	}
}

// PutDocument stores a document under its own ID.
func (s *NodeStore) PutDocument(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = doc
	if doc.ID > s.nextDoc {
		s.nextDoc = doc.ID
	}
}

// PutNode stores a node under its own ID.
func (s *NodeStore) PutNode(n domain.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[n.ID] = n
	if n.ID > s.nextNode {
		s.nextNode = n.ID
	}
}

// GetNode retrieves a node by ID.
func (s *NodeStore) GetNode(_ context.Context, id int64) (*domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &n, nil
}

// GetNodes retrieves several nodes by ID, skipping missing ones.
func (s *NodeStore) GetNodes(_ context.Context, ids []int64) (map[int64]*domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]*domain.Node, len(ids))
	for _, id := range ids {
		if n, ok := s.nodes[id]; ok {
			out[id] = &n
		}
	}
	return out, nil
}

// QueryNodeIDs returns ids of nodes matching the query, ascending.
func (s *NodeStore) QueryNodeIDs(_ context.Context, q domain.NodeQuery) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var root *domain.Node
	if q.SubtreeRootID != nil {
		r, ok := s.nodes[*q.SubtreeRootID]
		if !ok {
			return nil, fmt.Errorf("subtree root %d: %w", *q.SubtreeRootID, domain.ErrNotFound)
		}
		root = &r
	}

	ids := make([]int64, 0)
	for id, n := range s.nodes {
		if q.DocumentID != nil && n.DocumentID != *q.DocumentID {
			continue
		}
		if root != nil && !n.IsDescendantOf(*root) {
			continue
		}
		if q.LeafOnly && !n.IsLeaf() {
			continue
		}
		if q.PublishedOnly {
			doc, ok := s.documents[n.DocumentID]
			if !ok || doc.IsDraft {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// GetDocument retrieves a document by ID.
func (s *NodeStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents ordered by ID.
func (s *NodeStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.documents))
	for _, d := range s.documents {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// ImportTree stores a document and its nodes, assigning IDs in order.
func (s *NodeStore) ImportTree(_ context.Context, doc *domain.Document, nodes []domain.Node) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.documents {
		if d.SourceID == doc.SourceID {
			return nil, fmt.Errorf("document %q: %w", doc.SourceID, domain.ErrAlreadyExists)
		}
	}

	s.nextDoc++
	stored := *doc
	stored.ID = s.nextDoc
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.documents[stored.ID] = stored

	for i := range nodes {
		s.nextNode++
		nodes[i].ID = s.nextNode
		nodes[i].DocumentID = stored.ID
		s.nodes[nodes[i].ID] = nodes[i]
	}
	return &stored, nil
}
