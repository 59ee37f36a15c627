package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
)

// judgmentStore implements driven.JudgmentStore.
type judgmentStore struct {
	store *Store
}

var _ driven.JudgmentStore = (*judgmentStore)(nil)

const judgmentColumns = `id, node1_id, node2_id, rating, confidence, mode, ui_name, ui_version_hash,
	user_id, is_test_data, extra_fields, created_at`

// SaveJudgment stores or replaces a judgment.
func (s *judgmentStore) SaveJudgment(ctx context.Context, j *domain.Judgment) error {
	if j == nil || j.ID == "" {
		return domain.ErrInvalidInput
	}
	extra, err := marshalExtra(j.ExtraFields)
	if err != nil {
		return err
	}
	var confidence, isTest any
	if j.Confidence != nil {
		confidence = *j.Confidence
	}
	if j.IsTestData != nil {
		isTest = *j.IsTestData
	}

	_, err = s.store.exec(ctx, `
		INSERT INTO judgments (`+judgmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			node1_id = excluded.node1_id,
			node2_id = excluded.node2_id,
			rating = excluded.rating,
			confidence = excluded.confidence,
			mode = excluded.mode,
			ui_name = excluded.ui_name,
			ui_version_hash = excluded.ui_version_hash,
			user_id = excluded.user_id,
			is_test_data = excluded.is_test_data,
			extra_fields = excluded.extra_fields,
			created_at = excluded.created_at
	`, j.ID, j.Node1ID, j.Node2ID, j.Rating, confidence, string(j.Mode), j.UIName, j.UIVersionHash,
		j.UserID, isTest, extra, formatTime(j.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving judgment: %w", err)
	}
	return nil
}

// GetJudgment retrieves a judgment by ID.
func (s *judgmentStore) GetJudgment(ctx context.Context, id string) (*domain.Judgment, error) {
	row := s.store.queryRow(ctx, "SELECT "+judgmentColumns+" FROM judgments WHERE id = ?", id)
	j, err := scanJudgment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// ListJudgments returns judgments matching the filter, newest first.
func (s *judgmentStore) ListJudgments(ctx context.Context, f domain.JudgmentFilter) ([]domain.Judgment, error) {
	var (
		where []string
		args  []any
	)
	if f.NodeID != nil {
		where = append(where, "(node1_id = ? OR node2_id = ?)")
		args = append(args, *f.NodeID, *f.NodeID)
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.IsTestData != nil {
		if *f.IsTestData {
			where = append(where, "is_test_data = ?")
			args = append(args, true)
		} else {
			// Unassigned judgments count as training data.
			where = append(where, "(is_test_data IS NULL OR is_test_data = ?)")
			args = append(args, false)
		}
	}

	query := "SELECT " + judgmentColumns + " FROM judgments"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.store.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying judgments: %w", err)
	}
	defer rows.Close()

	judgments := make([]domain.Judgment, 0)
	for rows.Next() {
		j, err := scanJudgment(rows)
		if err != nil {
			return nil, err
		}
		judgments = append(judgments, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating judgments: %w", err)
	}
	return judgments, nil
}

// Leaderboard counts judgments per user, highest first.
// Judgments without a user are not counted.
func (s *judgmentStore) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT user_id, COUNT(*) AS n
		FROM judgments
		WHERE user_id <> ''
		GROUP BY user_id
		ORDER BY n DESC, user_id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Count); err != nil {
			return nil, fmt.Errorf("scanning leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leaderboard: %w", err)
	}
	return entries, nil
}

func scanJudgment(r rowScanner) (*domain.Judgment, error) {
	var (
		j          domain.Judgment
		confidence sql.NullFloat64
		mode       string
		isTest     sql.NullBool
		extra      sql.NullString
		createdAt  string
	)
	if err := r.Scan(&j.ID, &j.Node1ID, &j.Node2ID, &j.Rating, &confidence, &mode, &j.UIName,
		&j.UIVersionHash, &j.UserID, &isTest, &extra, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning judgment: %w", err)
	}
	j.Mode = domain.JudgmentMode(mode)
	if confidence.Valid {
		v := confidence.Float64
		j.Confidence = &v
	}
	if isTest.Valid {
		v := isTest.Bool
		j.IsTestData = &v
	}
	fields, err := unmarshalExtra(extra)
	if err != nil {
		return nil, fmt.Errorf("judgment %s: %w", j.ID, err)
	}
	j.ExtraFields = fields
	j.CreatedAt = parseTime(createdAt)
	return &j, nil
}

// evaluationStore implements driven.EvaluationStore.
type evaluationStore struct {
	store *Store
}

var _ driven.EvaluationStore = (*evaluationStore)(nil)

// SaveEvaluation stores an evaluation, replacing any for the same model and version.
func (s *evaluationStore) SaveEvaluation(ctx context.Context, e *domain.ModelEvaluation) error {
	if e == nil || e.Model == "" {
		return domain.ErrInvalidInput
	}
	training, err := json.Marshal(e.Training)
	if err != nil {
		return fmt.Errorf("marshalling training metrics: %w", err)
	}
	testing, err := json.Marshal(e.Testing)
	if err != nil {
		return fmt.Errorf("marshalling testing metrics: %w", err)
	}

	_, err = s.store.exec(ctx, `
		INSERT INTO model_evaluations (model, version, training, testing, evaluated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(model, version) DO UPDATE SET
			training = excluded.training,
			testing = excluded.testing,
			evaluated_at = excluded.evaluated_at
	`, e.Model, e.Version, string(training), string(testing), formatTime(e.EvaluatedAt))
	if err != nil {
		return fmt.Errorf("saving evaluation: %w", err)
	}
	return nil
}

// LatestEvaluation returns the most recent evaluation of a model.
func (s *evaluationStore) LatestEvaluation(ctx context.Context, model string) (*domain.ModelEvaluation, error) {
	var (
		e                 domain.ModelEvaluation
		training, testing string
		evaluatedAt       string
	)
	err := s.store.queryRow(ctx, `
		SELECT model, version, training, testing, evaluated_at
		FROM model_evaluations
		WHERE model = ?
		ORDER BY evaluated_at DESC
		LIMIT 1
	`, model).Scan(&e.Model, &e.Version, &training, &testing, &evaluatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying evaluation: %w", err)
	}

	if err := json.Unmarshal([]byte(training), &e.Training); err != nil {
		return nil, fmt.Errorf("unmarshalling training metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(testing), &e.Testing); err != nil {
		return nil, fmt.Errorf("unmarshalling testing metrics: %w", err)
	}
	e.EvaluatedAt = parseTime(evaluatedAt)
	return &e, nil
}
