package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Model Errors.

	// ErrArtifactNotFound indicates the named model has no trained artifact.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrCorruptArtifact indicates the artifact files disagree with each other,
	// e.g. the relevance matrix shape does not match the id index.
	ErrCorruptArtifact = errors.New("corrupt artifact")

	// Sampling Errors.

	// ErrNoEligibleCandidates indicates the filters left nothing to choose from,
	// or the sampling distribution degenerated to all zeros.
	ErrNoEligibleCandidates = errors.New("no eligible candidates")

	// ErrUnknownNode indicates a node id is not covered by the trained artifact.
	ErrUnknownNode = errors.New("unknown node")
)

// Hint returns a short user-facing explanation for domain errors.
// Returns an empty string for errors without a hint.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrArtifactNotFound):
		return "unknown model"
	case errors.Is(err, ErrCorruptArtifact):
		return "the model artifact is inconsistent; ask an operator to rebuild it"
	case errors.Is(err, ErrNoEligibleCandidates):
		return "try relaxing constraints (wider subtree, allow same document, include non-leaf nodes)"
	case errors.Is(err, ErrUnknownNode):
		return "the node is not covered by the trained model"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrInvalidInput):
		return "check the command arguments"
	default:
		return ""
	}
}
