package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrArtifactNotFound", ErrArtifactNotFound},
		{"ErrCorruptArtifact", ErrCorruptArtifact},
		{"ErrNoEligibleCandidates", ErrNoEligibleCandidates},
		{"ErrUnknownNode", ErrUnknownNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Uniqueness tests that all errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidInput,
		ErrArtifactNotFound,
		ErrCorruptArtifact,
		ErrNoEligibleCandidates,
		ErrUnknownNode,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

// TestErrors_DataErrors tests data-related error messages
func TestErrors_DataErrors(t *testing.T) {
	dataErrors := map[string]error{
		"not found":      ErrNotFound,
		"already exists": ErrAlreadyExists,
		"invalid input":  ErrInvalidInput,
	}

	for expectedMsg, err := range dataErrors {
		assert.Equal(t, expectedMsg, err.Error())
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"artifact not found", ErrArtifactNotFound, "unknown model"},
		{"corrupt artifact", ErrCorruptArtifact, "rebuild"},
		{"no candidates", ErrNoEligibleCandidates, "relaxing constraints"},
		{"unknown node", ErrUnknownNode, "not covered"},
		{"not found", ErrNotFound, "not found"},
		{"invalid input", ErrInvalidInput, "arguments"},
		{"wrapped", fmt.Errorf("load model: %w", ErrArtifactNotFound), "unknown model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Hint(tt.err), tt.contains)
		})
	}

	assert.Empty(t, Hint(errors.New("boom")))
	assert.Empty(t, Hint(nil))
}
