package tui

import "errors"

// ErrMissingPairService is returned when the pair service is not provided.
var ErrMissingPairService = errors.New("tui: pair service is required")

// ErrMissingJudgmentService is returned when the judgment service is not provided.
var ErrMissingJudgmentService = errors.New("tui: judgment service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
