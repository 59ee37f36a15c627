package domain

// DefaultRecommendCount is the result size used when neither a threshold
// nor a count is given.
const DefaultRecommendCount = 10

// RecommendRequest asks for nodes related to a target.
type RecommendRequest struct {
	// Model names the trained model; empty means the configured default.
	Model string

	// TargetID is the node to find related nodes for.
	TargetID int64

	// Threshold drops results scoring at or below it.
	Threshold *float64

	// Count truncates the result list.
	Count *int

	// IncludeSameDocument keeps nodes from the target's own document.
	IncludeSameDocument bool
}

// Recommendation is one ranked result.
type Recommendation struct {
	NodeID int64   `json:"node_id"`
	Row    int     `json:"row"`
	Score  float64 `json:"score"`
	Node   *Node   `json:"node,omitempty"`
}

// RecommendResult is a ranked list of related nodes.
type RecommendResult struct {
	// Model is the name of the model used.
	Model string `json:"model"`

	// Target echoes the target node.
	Target *Node `json:"target"`

	// Items are ordered by descending score, ties by ascending row.
	Items []Recommendation `json:"items"`

	// Total counts entries that passed the threshold before truncation.
	// It is not reduced by Count, so Total may exceed len(Items).
	Total int `json:"total"`
}

// ApplyDefaultCount sets Count to n when the request has neither a
// threshold nor a count. A non-positive n leaves the request unbounded.
func (r *RecommendRequest) ApplyDefaultCount(n int) {
	if r.Threshold != nil || r.Count != nil || n <= 0 {
		return
	}
	r.Count = &n
}
