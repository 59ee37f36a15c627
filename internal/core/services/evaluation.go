package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driven"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
	"github.com/learningequality/alignpro/internal/logger"
)

// Ensure EvaluationService implements the interface.
var _ driving.EvaluationService = (*EvaluationService)(nil)

// ModelCatalog loads and lists trained models.
type ModelCatalog interface {
	ModelLoader
	List(ctx context.Context) ([]domain.ModelInfo, error)
}

// EvaluationService scores models by how well they rank human judgments.
type EvaluationService struct {
	models      ModelCatalog
	judgments   driven.JudgmentStore
	evaluations driven.EvaluationStore

	now func() time.Time
}

// NewEvaluationService creates an evaluation service.
// The evaluations store is optional (can be nil); results are then not persisted.
func NewEvaluationService(
	models ModelCatalog,
	judgments driven.JudgmentStore,
	evaluations driven.EvaluationStore,
) *EvaluationService {
	return &EvaluationService{
		models:      models,
		judgments:   judgments,
		evaluations: evaluations,
		now:         time.Now,
	}
}

// Evaluate computes training and testing metrics for a model and stores them.
func (s *EvaluationService) Evaluate(ctx context.Context, model string) (*domain.ModelEvaluation, error) {
	logger.Section("Model Evaluation")

	artifact, err := s.models.Load(ctx, model)
	if err != nil {
		return nil, err
	}
	all, err := s.judgments.ListJudgments(ctx, domain.JudgmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list judgments: %w", err)
	}

	var training, testing []domain.Judgment
	for _, j := range all {
		if j.IsTest() {
			testing = append(testing, j)
		} else {
			training = append(training, j)
		}
	}
	logger.Debug("Evaluating %q on %d training and %d testing judgments", artifact.Name(), len(training), len(testing))

	eval := &domain.ModelEvaluation{
		Model:       artifact.Name(),
		Version:     artifact.Info().VersionKey(),
		Training:    evaluateSplit(artifact, training),
		Testing:     evaluateSplit(artifact, testing),
		EvaluatedAt: s.now().UTC(),
	}

	if s.evaluations != nil {
		if err := s.evaluations.SaveEvaluation(ctx, eval); err != nil {
			return nil, fmt.Errorf("save evaluation: %w", err)
		}
	}
	return eval, nil
}

// Latest returns the last stored evaluation of a model.
func (s *EvaluationService) Latest(ctx context.Context, model string) (*domain.ModelEvaluation, error) {
	if s.evaluations == nil {
		return nil, fmt.Errorf("evaluation of %q: %w", model, domain.ErrNotFound)
	}
	eval, err := s.evaluations.LatestEvaluation(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("evaluation of %q: %w", model, err)
	}
	return eval, nil
}

// EvaluateStale evaluates every model whose current version has no stored
// evaluation. A model that fails to evaluate is logged and skipped.
func (s *EvaluationService) EvaluateStale(ctx context.Context) (int, error) {
	infos, err := s.models.List(ctx)
	if err != nil {
		return 0, err
	}

	evaluated := 0
	var errs []error
	for _, info := range infos {
		if ctx.Err() != nil {
			return evaluated, ctx.Err()
		}
		latest, err := s.Latest(ctx, info.Name)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			errs = append(errs, err)
			continue
		}
		if latest != nil && latest.Version == info.VersionKey() {
			logger.Debug("Model %q is up to date", info.Name)
			continue
		}
		if _, err := s.Evaluate(ctx, info.Name); err != nil {
			logger.Warn("Failed to evaluate model %q: %v", info.Name, err)
			errs = append(errs, err)
			continue
		}
		evaluated++
	}
	return evaluated, errors.Join(errs...)
}

// evaluateSplit computes ranking metrics for one split of judgments.
// Judgments referencing nodes outside the model are ignored.
func evaluateSplit(artifact *domain.ModelArtifact, judgments []domain.Judgment) domain.SplitMetrics {
	m := domain.SplitMetrics{
		MeanPercentile: map[string]float64{"0": 0, "0.5": 0, "1": 0},
		RatingCounts:   map[string]int{"0": 0, "0.5": 0, "1": 0},
	}

	sums := map[string]float64{}
	partners := map[int64]map[int64]struct{}{}
	addPartner := func(node, partner int64) {
		if partners[node] == nil {
			partners[node] = map[int64]struct{}{}
		}
		partners[node][partner] = struct{}{}
	}

	for _, j := range judgments {
		r1, ok1 := artifact.RowOf(j.Node1ID)
		r2, ok2 := artifact.RowOf(j.Node2ID)
		if !ok1 || !ok2 {
			continue
		}
		m.Judgments++

		row := artifact.Row(r1)
		if key := domain.RatingKey(j.Rating); key != "" {
			sums[key] += percentileOfScore(row, row[r2])
			m.RatingCounts[key]++
		}
		if j.Rating == domain.RatingRelated {
			addPartner(j.Node1ID, j.Node2ID)
			addPartner(j.Node2ID, j.Node1ID)
		}
	}
	for key, n := range m.RatingCounts {
		if n > 0 {
			m.MeanPercentile[key] = sums[key] / float64(n)
		}
	}

	nodeIDs := make([]int64, 0, len(partners))
	for id := range partners {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	var bestSum, worstSum float64
	for _, id := range nodeIDs {
		row := artifact.Row(mustRow(artifact, id))
		var best, worst float64
		count := 0
		for partner := range partners[id] {
			if partner == id {
				continue
			}
			pred := row[mustRow(artifact, partner)]
			if count == 0 || pred > best {
				best = pred
			}
			if count == 0 || pred < worst {
				worst = pred
			}
			count++
		}
		if count == 0 {
			continue
		}
		m.PositiveNodes++
		bestSum += rankOf(row, best)
		worstSum += rankOf(row, worst) - float64(count) + 1
	}
	if m.PositiveNodes > 0 {
		m.MeanBestRank = bestSum / float64(m.PositiveNodes)
		m.MeanWorstRank = worstSum / float64(m.PositiveNodes)
	}
	return m
}

// mustRow returns the row of an id already known to be in the artifact.
func mustRow(artifact *domain.ModelArtifact, id int64) int {
	row, _ := artifact.RowOf(id)
	return row
}

// percentileOfScore is the "rank" percentile of score within row: ties
// receive the mean of the percentiles they span.
func percentileOfScore(row []float64, score float64) float64 {
	if len(row) == 0 {
		return 0
	}
	var below, atOrBelow int
	for _, v := range row {
		if v < score {
			below++
		}
		if v <= score {
			atOrBelow++
		}
	}
	plusOne := 0
	if below < atOrBelow {
		plusOne = 1
	}
	return float64(below+atOrBelow+plusOne) * 50 / float64(len(row))
}

// rankOf converts a score's percentile into a rank from the top of row.
func rankOf(row []float64, score float64) float64 {
	return (1 - percentileOfScore(row, score)/100) * float64(len(row))
}
