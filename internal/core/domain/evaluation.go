package domain

import "time"

// SplitMetrics are ranking metrics over one split of the judgments.
type SplitMetrics struct {
	// Judgments is the number of judgments with both nodes in the model.
	Judgments int `json:"judgments"`

	// MeanPercentile maps a rating ("0", "0.5", "1") to the mean
	// percentile of the predicted score within the node1 row.
	MeanPercentile map[string]float64 `json:"mean_percentile"`

	// RatingCounts maps a rating to the number of judgments averaged.
	RatingCounts map[string]int `json:"rating_counts"`

	// PositiveNodes is the number of nodes with at least one positive judgment.
	PositiveNodes int `json:"positive_nodes"`

	// MeanBestRank is the mean rank of the best scored positive partner.
	MeanBestRank float64 `json:"mean_best_rank"`

	// MeanWorstRank is the mean adjusted rank of the worst scored positive partner.
	MeanWorstRank float64 `json:"mean_worst_rank"`
}

// ModelEvaluation is a stored evaluation of one model version.
type ModelEvaluation struct {
	Model       string       `json:"model"`
	Version     string       `json:"version"`
	Training    SplitMetrics `json:"training"`
	Testing     SplitMetrics `json:"testing"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
}

// RatingKey formats a rating as a metrics map key.
func RatingKey(rating float64) string {
	switch rating {
	case RatingUnrelated:
		return "0"
	case RatingPartial:
		return "0.5"
	case RatingRelated:
		return "1"
	default:
		return ""
	}
}
