// Package mcp provides an MCP (Model Context Protocol) server adapter for alignpro.
// It lets AI assistants draw pairs to judge, rank related nodes and record judgments.
package mcp

import (
	"errors"
	"fmt"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// ErrMissingPairService is returned when the pair service is not provided.
var ErrMissingPairService = errors.New("mcp: pair service is required")

// ErrMissingModelService is returned when the model service is not provided.
var ErrMissingModelService = errors.New("mcp: model service is required")

// toolError attaches the domain hint, if any, to a tool failure.
func toolError(err error) error {
	if hint := domain.Hint(err); hint != "" {
		return fmt.Errorf("%w (%s)", err, hint)
	}
	return err
}
