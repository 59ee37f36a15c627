package domain

import "time"

// JudgmentMode records which annotation flow produced a judgment.
type JudgmentMode string

// Available judgment modes.
const (
	JudgmentModeManual JudgmentMode = "manual"
	JudgmentModeRapid  JudgmentMode = "rapid"
)

// IsValid returns true if the mode is recognised.
func (m JudgmentMode) IsValid() bool {
	return m == JudgmentModeManual || m == JudgmentModeRapid
}

// Canonical rating values used by rapid annotation and evaluation.
const (
	RatingUnrelated = 0.0
	RatingPartial   = 0.5
	RatingRelated   = 1.0
)

// DefaultTestProportion is the share of judgments held out for testing.
const DefaultTestProportion = 0.15

// Judgment is a human relevance rating between two nodes.
type Judgment struct {
	ID            string         `json:"id"`
	Node1ID       int64          `json:"node1_id"`
	Node2ID       int64          `json:"node2_id"`
	Rating        float64        `json:"rating"`
	Confidence    *float64       `json:"confidence,omitempty"`
	Mode          JudgmentMode   `json:"mode"`
	UIName        string         `json:"ui_name,omitempty"`
	UIVersionHash string         `json:"ui_version_hash,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
	IsTestData    *bool          `json:"is_test_data,omitempty"`
	ExtraFields   map[string]any `json:"extra_fields,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// IsTest reports whether the judgment belongs to the testing split.
func (j *Judgment) IsTest() bool {
	return j.IsTestData != nil && *j.IsTestData
}

// JudgmentFilter selects judgments from a store.
type JudgmentFilter struct {
	// NodeID matches judgments where either side is this node.
	NodeID *int64

	// UserID matches judgments by one annotator.
	UserID string

	// IsTestData selects one split when set.
	IsTestData *bool

	// Limit caps the number of results; 0 means no limit.
	Limit int
}

// LeaderboardEntry counts judgments per annotator.
type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}
