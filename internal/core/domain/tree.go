package domain

import "fmt"

// TreeDocument is a document with its nested node tree, as read from an
// import file.
type TreeDocument struct {
	SourceID           string     `json:"source_id"`
	Title              string     `json:"title"`
	Country            string     `json:"country"`
	DigitizationMethod string     `json:"digitization_method"`
	SourceURL          string     `json:"source_url"`
	IsDraft            bool       `json:"is_draft"`
	Children           []TreeNode `json:"children"`
}

// TreeNode is one node of an import tree.
type TreeNode struct {
	Kind        NodeKind       `json:"kind"`
	Identifier  string         `json:"identifier"`
	Title       string         `json:"title"`
	Notes       string         `json:"notes"`
	TimeUnits   *float64       `json:"time_units"`
	ExtraFields map[string]any `json:"extra_fields"`
	Children    []TreeNode     `json:"children"`
}

// MaxPathChildren is the largest number of siblings a path step can encode.
const MaxPathChildren = 9999

// PathStep formats the 1-based sibling position as one path step.
func PathStep(pos int) string {
	return fmt.Sprintf("%0*d", PathStepLen, pos)
}
