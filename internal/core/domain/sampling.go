package domain

const unknownDescription = "Unknown"

// SchedulerPolicy selects how the next pair to judge is chosen.
type SchedulerPolicy string

// Available scheduler policies.
const (
	// PolicyWeighted draws the right node with probability skewed towards
	// high predicted relevance.
	PolicyWeighted SchedulerPolicy = "weighted"

	// PolicyUniformRandom draws the right node uniformly from eligible nodes.
	PolicyUniformRandom SchedulerPolicy = "uniform-random"
)

// IsValid returns true if the policy is recognised.
func (p SchedulerPolicy) IsValid() bool {
	switch p {
	case PolicyWeighted, PolicyUniformRandom:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p SchedulerPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p SchedulerPolicy) Description() string {
	switch p {
	case PolicyWeighted:
		return "Weighted (favour likely matches)"
	case PolicyUniformRandom:
		return "Uniform random"
	default:
		return unknownDescription
	}
}

// AllSchedulerPolicies returns all available policies.
func AllSchedulerPolicies() []SchedulerPolicy {
	return []SchedulerPolicy{PolicyWeighted, PolicyUniformRandom}
}

// MaxSampleWeight is the largest relevance kept as a sampling weight.
// Larger values are treated as near-duplicates and zeroed.
const MaxSampleWeight = 0.999

// MaxTopWeights bounds the weight summary attached to a sampled pair.
const MaxTopWeights = 20

// MinTopWeight is the smallest weight listed in the summary.
const MinTopWeight = 0.001

// DefaultGamma is the default skew exponent.
const DefaultGamma = 20.0

// RowFilter restricts which artifact rows are eligible.
type RowFilter struct {
	// SubtreeRootID limits rows to descendants of this node (inclusive).
	SubtreeRootID *int64

	// LeafOnly limits rows to nodes without children.
	LeafOnly bool

	// ExcludeDocumentID drops rows belonging to this document.
	ExcludeDocumentID *int64

	// PublishedOnly limits rows to nodes of non-draft documents.
	PublishedOnly bool
}

// PairRequest asks for the next pair of nodes to judge.
type PairRequest struct {
	// Model names the trained model; empty means the configured default.
	Model string

	// Policy selects the sampling policy; empty means weighted.
	Policy SchedulerPolicy

	// Gamma is the skew exponent for the weighted policy.
	Gamma float64

	// LeftRootID restricts the left node to a subtree.
	LeftRootID *int64

	// RightRootID restricts the right node to a subtree.
	RightRootID *int64

	// AllowSameDocument permits pairs within one document.
	AllowSameDocument bool

	// IncludeNonLeaf permits non-leaf nodes on both sides.
	IncludeNonLeaf bool

	// PublishedOnly limits both sides to non-draft documents.
	PublishedOnly bool

	// Seed makes the draw reproducible when set.
	Seed *uint64
}

// WeightEntry is one entry of a sampling weight summary.
type WeightEntry struct {
	NodeID int64   `json:"node_id"`
	Row    int     `json:"row"`
	Weight float64 `json:"weight"`
}

// SampledPair is the result of one pair draw.
type SampledPair struct {
	// Model is the name of the model used.
	Model string `json:"model"`

	// Policy is the policy used.
	Policy SchedulerPolicy `json:"policy"`

	// Left and Right are the node ids of the pair.
	Left  int64 `json:"left"`
	Right int64 `json:"right"`

	// LeftNode and RightNode are hydrated from the node store when present.
	LeftNode  *Node `json:"left_node,omitempty"`
	RightNode *Node `json:"right_node,omitempty"`

	// Score is the raw relevance between the pair.
	Score float64 `json:"score"`

	// Probability is the chance the right node had of being drawn.
	Probability float64 `json:"probability"`

	// TopWeights lists the heaviest candidate weights, descending.
	TopWeights []WeightEntry `json:"top_weights"`

	// UsedFallback is true when the skewed weights degenerated and the
	// clamped raw weights were used instead.
	UsedFallback bool `json:"used_fallback"`
}
