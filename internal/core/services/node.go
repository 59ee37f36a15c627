package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
	"github.com/learningequality/alignpro/internal/logger"
)

// Ensure NodeService implements the interface.
var _ driving.NodeService = (*NodeService)(nil)

// NodeService reads curriculum nodes and imports document trees.
type NodeService struct {
	nodes    driven.NodeStore
	importer driven.TreeImporter
}

// NewNodeService creates a node service.
// The importer is optional (can be nil); Import then fails.
func NewNodeService(nodes driven.NodeStore, importer driven.TreeImporter) *NodeService {
	return &NodeService{nodes: nodes, importer: importer}
}

// Get retrieves a node by ID.
func (s *NodeService) Get(ctx context.Context, id int64) (*domain.Node, error) {
	n, err := s.nodes.GetNode(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", id, err)
	}
	return n, nil
}

// Documents lists all documents.
func (s *NodeService) Documents(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.nodes.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Import flattens a nested tree into nodes and stores it.
// Returns the stored document and the number of nodes written.
func (s *NodeService) Import(ctx context.Context, tree domain.TreeDocument) (*domain.Document, int, error) {
	logger.Section("Tree Import")

	if s.importer == nil {
		return nil, 0, fmt.Errorf("%w: tree import is not available", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(tree.SourceID) == "" {
		return nil, 0, fmt.Errorf("%w: source_id is required", domain.ErrInvalidInput)
	}

	nodes, err := FlattenTree(tree)
	if err != nil {
		return nil, 0, err
	}

	doc := &domain.Document{
		SourceID:           tree.SourceID,
		Title:              tree.Title,
		Country:            tree.Country,
		DigitizationMethod: tree.DigitizationMethod,
		SourceURL:          tree.SourceURL,
		IsDraft:            tree.IsDraft,
	}
	stored, err := s.importer.ImportTree(ctx, doc, nodes)
	if err != nil {
		return nil, 0, fmt.Errorf("import %s: %w", tree.SourceID, err)
	}
	logger.Info("Imported document %q with %d nodes", stored.SourceID, len(nodes))
	return stored, len(nodes), nil
}

// FlattenTree lays out a document tree in depth-first order with
// materialized paths. The document itself becomes the depth 1 root.
func FlattenTree(tree domain.TreeDocument) ([]domain.Node, error) {
	root := domain.TreeNode{
		Kind:     domain.NodeKindDocument,
		Title:    tree.Title,
		Children: tree.Children,
	}
	var out []domain.Node
	if err := flattenNode(root, domain.PathStep(1), 1, 1, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenNode(tn domain.TreeNode, path string, depth, pos int, out *[]domain.Node) error {
	if len(tn.Children) > domain.MaxPathChildren {
		return fmt.Errorf("%w: node at %s has %d children, at most %d allowed",
			domain.ErrInvalidInput, path, len(tn.Children), domain.MaxPathChildren)
	}
	kind := tn.Kind
	if kind == "" {
		kind = domain.NodeKindTopic
		if len(tn.Children) == 0 {
			kind = domain.NodeKindUnit
		}
	}
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown node kind %q at %s", domain.ErrInvalidInput, kind, path)
	}

	*out = append(*out, domain.Node{
		Path:        path,
		Depth:       depth,
		NumChild:    len(tn.Children),
		SortOrder:   float64(pos),
		Kind:        kind,
		Identifier:  tn.Identifier,
		Title:       tn.Title,
		Notes:       tn.Notes,
		TimeUnits:   tn.TimeUnits,
		ExtraFields: tn.ExtraFields,
	})
	for i, child := range tn.Children {
		if err := flattenNode(child, path+domain.PathStep(i+1), depth+1, i+1, out); err != nil {
			return err
		}
	}
	return nil
}
