package domain

import (
	"strings"
	"time"
)

// PathStepLen is the number of characters each tree level adds to a
// node's materialized path.
const PathStepLen = 4

// NodeKind tags the structural role of a node within its document tree.
type NodeKind string

// Available node kinds.
const (
	// NodeKindDocument is the root node of a curriculum document.
	NodeKindDocument NodeKind = "document"

	// NodeKindLevel is a grade level or age group.
	NodeKindLevel NodeKind = "level"

	// NodeKindSubject is a subject area, e.g. Mathematics.
	NodeKindSubject NodeKind = "subject"

	// NodeKindTopic is a section or subsection.
	NodeKindTopic NodeKind = "topic"

	// NodeKindUnit is an individual standard entry.
	NodeKindUnit NodeKind = "unit"
)

// IsValid returns true if the node kind is recognised.
func (k NodeKind) IsValid() bool {
	switch k {
	case NodeKindDocument, NodeKindLevel, NodeKindSubject, NodeKindTopic, NodeKindUnit:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k NodeKind) String() string {
	return string(k)
}

// Document is a curriculum source document owning one tree of nodes.
type Document struct {
	// ID is the unique identifier for the document.
	ID int64 `json:"id"`

	// SourceID is the unique identifier of the source document.
	SourceID string `json:"source_id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Country is the country whose curriculum this is.
	Country string `json:"country,omitempty"`

	// DigitizationMethod records how the document was digitized.
	DigitizationMethod string `json:"digitization_method,omitempty"`

	// SourceURL is the location the document was obtained from.
	SourceURL string `json:"source_url,omitempty"`

	// IsDraft hides the document from published-only queries.
	IsDraft bool `json:"is_draft"`

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time `json:"created_at"`
}

// Node is a single curricular-standard entry in a document's tree.
type Node struct {
	// ID is the unique identifier for the node.
	ID int64 `json:"id"`

	// DocumentID links to the owning Document.
	DocumentID int64 `json:"document_id"`

	// Path is the materialized path of the node, PathStepLen characters per level.
	// A descendant's path always starts with its ancestor's path.
	Path string `json:"path"`

	// Depth is the tree level, 1 for the document root.
	Depth int `json:"depth"`

	// NumChild is the number of direct children.
	NumChild int `json:"numchild"`

	// SortOrder orders siblings within their parent.
	SortOrder float64 `json:"sort_order"`

	// Kind tags the structural role of the node.
	Kind NodeKind `json:"kind"`

	// Identifier is the code used by the source document, e.g. "MA.3.2".
	Identifier string `json:"identifier"`

	// Title is the text of the standard.
	Title string `json:"title"`

	// Notes holds additional notes and modification attributes.
	Notes string `json:"notes,omitempty"`

	// TimeUnits approximates the hours of instruction for this unit.
	TimeUnits *float64 `json:"time_units,omitempty"`

	// ExtraFields holds arbitrary key-value pairs.
	ExtraFields map[string]any `json:"extra_fields,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool {
	return n.NumChild == 0
}

// IsDescendantOf reports whether n is root or lies below root in the same tree.
func (n Node) IsDescendantOf(root Node) bool {
	return n.DocumentID == root.DocumentID && strings.HasPrefix(n.Path, root.Path)
}

// ParentPath returns the materialized path of the node's parent,
// or an empty string for a root node.
func (n Node) ParentPath() string {
	if len(n.Path) <= PathStepLen {
		return ""
	}
	return n.Path[:len(n.Path)-PathStepLen]
}

// String returns the identifier and title.
func (n Node) String() string {
	if n.Identifier == "" {
		return n.Title
	}
	return n.Identifier + " " + n.Title
}

// NodeQuery selects live nodes from the node store.
// Zero values mean "no restriction".
type NodeQuery struct {
	// DocumentID restricts to nodes of one document.
	DocumentID *int64

	// SubtreeRootID restricts to the root node and its descendants.
	SubtreeRootID *int64

	// LeafOnly keeps only nodes without children.
	LeafOnly bool

	// PublishedOnly drops nodes whose document is a draft.
	PublishedOnly bool
}
