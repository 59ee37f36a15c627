package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// nodeStore implements driven.NodeStore and driven.TreeImporter.
type nodeStore struct {
	store *Store
}

var (
	_ driven.NodeStore    = (*nodeStore)(nil)
	_ driven.TreeImporter = (*nodeStore)(nil)
)

const nodeColumns = `n.id, n.document_id, n.path, n.depth, n.numchild, n.sort_order, n.kind,
	n.identifier, n.title, n.notes, n.time_units, n.extra_fields`

const documentColumns = `id, source_id, title, country, digitization_method, source_url, is_draft, created_at`

// GetNode retrieves a node by ID.
func (s *nodeStore) GetNode(ctx context.Context, id int64) (*domain.Node, error) {
	row := s.store.queryRow(ctx, "SELECT "+nodeColumns+" FROM nodes n WHERE n.id = ?", id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// GetNodes retrieves several nodes by ID. Missing ids are skipped.
func (s *nodeStore) GetNodes(ctx context.Context, ids []int64) (map[int64]*domain.Node, error) {
	out := make(map[int64]*domain.Node, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	// Chunked to stay under SQLite's bound parameter limit.
	const chunk = 500
	for start := 0; start < len(ids); start += chunk {
		end := min(start+chunk, len(ids))
		part := ids[start:end]

		args := make([]any, len(part))
		for i, id := range part {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(part)), ",")
		rows, err := s.store.query(ctx,
			"SELECT "+nodeColumns+" FROM nodes n WHERE n.id IN ("+placeholders+")", args...)
		if err != nil {
			return nil, fmt.Errorf("querying nodes: %w", err)
		}
		for rows.Next() {
			n, err := scanNode(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			out[n.ID] = n
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterating nodes: %w", err)
		}
	}
	return out, nil
}

// QueryNodeIDs returns the ids of live nodes matching the query, ascending.
func (s *nodeStore) QueryNodeIDs(ctx context.Context, q domain.NodeQuery) ([]int64, error) {
	var (
		where []string
		args  []any
	)
	if q.SubtreeRootID != nil {
		root, err := s.GetNode(ctx, *q.SubtreeRootID)
		if err != nil {
			return nil, fmt.Errorf("subtree root %d: %w", *q.SubtreeRootID, err)
		}
		where = append(where, "n.document_id = ?", "n.path LIKE ?")
		args = append(args, root.DocumentID, root.Path+"%")
	}
	if q.DocumentID != nil {
		where = append(where, "n.document_id = ?")
		args = append(args, *q.DocumentID)
	}
	if q.LeafOnly {
		where = append(where, "n.numchild = 0")
	}

	query := "SELECT n.id FROM nodes n"
	if q.PublishedOnly {
		query += " JOIN documents d ON d.id = n.document_id"
		where = append(where, "d.is_draft = ?")
		args = append(args, false)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY n.id"

	rows, err := s.store.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying node ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning node id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating node ids: %w", err)
	}
	return ids, nil
}

// GetDocument retrieves a document by ID.
func (s *nodeStore) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	row := s.store.queryRow(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns all documents ordered by ID.
func (s *nodeStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.query(ctx, "SELECT "+documentColumns+" FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// ImportTree stores a document with its nodes in one transaction.
func (s *nodeStore) ImportTree(ctx context.Context, doc *domain.Document, nodes []domain.Node) (*domain.Document, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	stored := *doc
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var exists int
	err = tx.QueryRowContext(ctx, s.store.rebind("SELECT COUNT(*) FROM documents WHERE source_id = ?"),
		stored.SourceID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking document: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("document %q: %w", stored.SourceID, domain.ErrAlreadyExists)
	}

	err = tx.QueryRowContext(ctx, s.store.rebind(`
		INSERT INTO documents (source_id, title, country, digitization_method, source_url, is_draft, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), stored.SourceID, stored.Title, stored.Country, stored.DigitizationMethod,
		stored.SourceURL, stored.IsDraft, formatTime(stored.CreatedAt)).Scan(&stored.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("document %q: %w", stored.SourceID, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, s.store.rebind(`
		INSERT INTO nodes (document_id, path, depth, numchild, sort_order, kind,
			identifier, title, notes, time_units, extra_fields)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`))
	if err != nil {
		return nil, fmt.Errorf("preparing node insert: %w", err)
	}
	defer insert.Close()

	for i := range nodes {
		n := &nodes[i]
		extra, err := marshalExtra(n.ExtraFields)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Path, err)
		}
		var timeUnits any
		if n.TimeUnits != nil {
			timeUnits = *n.TimeUnits
		}
		err = insert.QueryRowContext(ctx, stored.ID, n.Path, n.Depth, n.NumChild, n.SortOrder,
			string(n.Kind), n.Identifier, n.Title, n.Notes, timeUnits, extra).Scan(&n.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("node path %q: %w", n.Path, domain.ErrAlreadyExists)
			}
			return nil, fmt.Errorf("inserting node %q: %w", n.Path, err)
		}
		n.DocumentID = stored.ID
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}
	return &stored, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(r rowScanner) (*domain.Node, error) {
	var (
		n         domain.Node
		kind      string
		timeUnits sql.NullFloat64
		extra     sql.NullString
	)
	if err := r.Scan(&n.ID, &n.DocumentID, &n.Path, &n.Depth, &n.NumChild, &n.SortOrder, &kind,
		&n.Identifier, &n.Title, &n.Notes, &timeUnits, &extra); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning node: %w", err)
	}
	n.Kind = domain.NodeKind(kind)
	if timeUnits.Valid {
		v := timeUnits.Float64
		n.TimeUnits = &v
	}
	fields, err := unmarshalExtra(extra)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", n.ID, err)
	}
	n.ExtraFields = fields
	return &n, nil
}

func scanDocument(r rowScanner) (*domain.Document, error) {
	var (
		doc       domain.Document
		createdAt string
	)
	if err := r.Scan(&doc.ID, &doc.SourceID, &doc.Title, &doc.Country, &doc.DigitizationMethod,
		&doc.SourceURL, &doc.IsDraft, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.CreatedAt = parseTime(createdAt)
	return &doc, nil
}

// marshalExtra encodes extra fields as JSON, or nil when there are none.
func marshalExtra(fields map[string]any) (any, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshalling extra fields: %w", err)
	}
	return string(data), nil
}

func unmarshalExtra(s sql.NullString) (map[string]any, error) {
	if !s.Valid || s.String == "" || s.String == jsonNull {
		return nil, nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(s.String), &fields); err != nil {
		return nil, fmt.Errorf("unmarshalling extra fields: %w", err)
	}
	return fields, nil
}
