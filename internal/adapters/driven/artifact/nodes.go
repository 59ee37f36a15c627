package artifact

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// Node table columns.
const (
	colID         = "id"
	colRow        = "row"
	colDocumentID = "document_id"
	colIsLeaf     = "is_leaf"
	colNumChild   = "numchild"
)

// readNodeTable parses nodes.csv. The header must name id, row and
// document_id plus either is_leaf or numchild; other columns are ignored.
func readNodeTable(path string) ([]domain.NodeMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseNodeTable(f)
}

func parseNodeTable(r io.Reader) ([]domain.NodeMeta, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("node table is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{colID, colRow, colDocumentID} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("node table has no %q column", required)
		}
	}
	leafCol, hasLeaf := cols[colIsLeaf]
	childCol, hasChild := cols[colNumChild]
	if !hasLeaf && !hasChild {
		return nil, fmt.Errorf("node table needs an %q or %q column", colIsLeaf, colNumChild)
	}

	var table []domain.NodeMeta
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var meta domain.NodeMeta
		if meta.ID, err = strconv.ParseInt(strings.TrimSpace(rec[cols[colID]]), 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: bad id: %w", line, err)
		}
		if meta.Row, err = strconv.Atoi(strings.TrimSpace(rec[cols[colRow]])); err != nil {
			return nil, fmt.Errorf("line %d: bad row: %w", line, err)
		}
		if meta.DocumentID, err = strconv.ParseInt(strings.TrimSpace(rec[cols[colDocumentID]]), 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: bad document_id: %w", line, err)
		}
		if hasLeaf {
			if meta.IsLeaf, err = strconv.ParseBool(strings.TrimSpace(rec[leafCol])); err != nil {
				return nil, fmt.Errorf("line %d: bad is_leaf: %w", line, err)
			}
		} else {
			n, err := strconv.Atoi(strings.TrimSpace(rec[childCol]))
			if err != nil {
				return nil, fmt.Errorf("line %d: bad numchild: %w", line, err)
			}
			meta.IsLeaf = n == 0
		}
		table = append(table, meta)
	}
	return table, nil
}
