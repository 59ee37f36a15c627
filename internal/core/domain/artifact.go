package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Matrix is a dense row-major matrix of float64 values.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// NewMatrix wraps data as a rows x cols matrix.
// The data slice is retained, not copied.
func NewMatrix(rows, cols int, data []float64) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative matrix shape %dx%d", ErrInvalidInput, rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix", ErrInvalidInput, len(data), rows, cols)
	}
	return &Matrix{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Row returns a read-only view of row i. Callers must not modify it.
func (m *Matrix) Row(i int) []float64 {
	start := i * m.cols
	return m.data[start : start+m.cols : start+m.cols]
}

// NodeMeta is the artifact's side table entry for one matrix row.
type NodeMeta struct {
	// ID is the persistent node id.
	ID int64

	// Row is the node's position in the id index and the matrix.
	Row int

	// DocumentID is the document the node belonged to at training time.
	DocumentID int64

	// IsLeaf records whether the node had no children at training time.
	IsLeaf bool
}

// ModelInfo describes a trained model without loading its matrix.
type ModelInfo struct {
	// Name is the model directory name, e.g. "baseline".
	Name string

	// Version is the declared model version, if any.
	Version string

	// GitHash identifies the training code revision.
	GitHash string

	// NotebookURL links to the training notebook.
	NotebookURL string

	// TeamMembers lists the model authors.
	TeamMembers string

	// ModTime is the newest modification time of the artifact files.
	// It identifies one trained version of the model.
	ModTime time.Time

	// SizeBytes is the total size of the artifact files.
	SizeBytes int64

	// Rows is the number of nodes in the id index, when known.
	Rows int
}

// VersionKey returns a string identifying this trained version.
func (i ModelInfo) VersionKey() string {
	if i.Version != "" {
		return i.Version + "@" + i.ModTime.UTC().Format(time.RFC3339Nano)
	}
	return i.ModTime.UTC().Format(time.RFC3339Nano)
}

// ModelArtifact is an immutable, loaded similarity model: an ordered id
// index, a square relevance matrix aligned to it and a per-row node table.
// It is safe for concurrent reads.
type ModelArtifact struct {
	info      ModelInfo
	ids       []int64
	relevance *Matrix
	nodes     []NodeMeta
	rowByID   map[int64]int
}

// NewModelArtifact validates and assembles a model artifact.
//
// The matrix must be len(ids) x len(ids), ids must be unique, and the node
// table must hold exactly one entry per id whose Row matches the id's
// position. Any violation is ErrCorruptArtifact.
func NewModelArtifact(info ModelInfo, ids []int64, relevance *Matrix, table []NodeMeta) (*ModelArtifact, error) {
	n := len(ids)
	if relevance == nil {
		return nil, fmt.Errorf("%w: missing relevance matrix", ErrCorruptArtifact)
	}
	if relevance.Rows() != n || relevance.Cols() != n {
		return nil, fmt.Errorf("%w: relevance matrix is %dx%d, expected %dx%d to match the id index",
			ErrCorruptArtifact, relevance.Rows(), relevance.Cols(), n, n)
	}

	rowByID := make(map[int64]int, n)
	for row, id := range ids {
		if prev, dup := rowByID[id]; dup {
			return nil, fmt.Errorf("%w: node %d appears at rows %d and %d", ErrCorruptArtifact, id, prev, row)
		}
		rowByID[id] = row
	}

	nodes := make([]NodeMeta, n)
	seen := make([]bool, n)
	for _, meta := range table {
		row, ok := rowByID[meta.ID]
		if !ok {
			return nil, fmt.Errorf("%w: node table references node %d missing from the index", ErrCorruptArtifact, meta.ID)
		}
		if meta.Row != row {
			return nil, fmt.Errorf("%w: node table puts node %d at row %d, index has row %d",
				ErrCorruptArtifact, meta.ID, meta.Row, row)
		}
		if seen[row] {
			return nil, fmt.Errorf("%w: node table lists node %d twice", ErrCorruptArtifact, meta.ID)
		}
		seen[row] = true
		nodes[row] = meta
	}
	for row, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: node %d has no node table entry", ErrCorruptArtifact, ids[row])
		}
	}

	info.Rows = n
	return &ModelArtifact{
		info:      info,
		ids:       ids,
		relevance: relevance,
		nodes:     nodes,
		rowByID:   rowByID,
	}, nil
}

// Info returns the model description.
func (a *ModelArtifact) Info() ModelInfo { return a.info }

// Name returns the model name.
func (a *ModelArtifact) Name() string { return a.info.Name }

// Len returns the number of rows.
func (a *ModelArtifact) Len() int { return len(a.ids) }

// RowOf returns the row index of a node id.
func (a *ModelArtifact) RowOf(id int64) (int, bool) {
	row, ok := a.rowByID[id]
	return row, ok
}

// IDAt returns the node id at a row.
func (a *ModelArtifact) IDAt(row int) int64 { return a.ids[row] }

// Meta returns the node table entry for a row.
func (a *ModelArtifact) Meta(row int) NodeMeta { return a.nodes[row] }

// Row returns a read-only view of the relevance row. Callers must not modify it.
func (a *ModelArtifact) Row(row int) []float64 { return a.relevance.Row(row) }

// Score returns the raw relevance of row i to row j.
func (a *ModelArtifact) Score(i, j int) float64 { return a.relevance.At(i, j) }

// RowSet is an ascending, de-duplicated set of artifact row indices.
type RowSet []int

// NewRowSet sorts and de-duplicates rows.
func NewRowSet(rows []int) RowSet {
	out := append([]int(nil), rows...)
	sort.Ints(out)
	n := 0
	for i, r := range out {
		if i > 0 && r == out[n-1] {
			continue
		}
		out[n] = r
		n++
	}
	return RowSet(out[:n])
}

// Len returns the number of rows in the set.
func (s RowSet) Len() int { return len(s) }

// Contains reports whether row is in the set.
func (s RowSet) Contains(row int) bool {
	i := sort.SearchInts(s, row)
	return i < len(s) && s[i] == row
}

// Mask returns a boolean eligibility mask of length n.
func (s RowSet) Mask(n int) []bool {
	mask := make([]bool, n)
	for _, r := range s {
		if r >= 0 && r < n {
			mask[r] = true
		}
	}
	return mask
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
