// Package tui provides an interactive terminal user interface for alignpro.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pairs draws the next pair to judge.
	Pairs driving.PairService

	// Recommend ranks nodes related to a target.
	Recommend driving.RecommendService

	// Judgments records human judgments.
	Judgments driving.JudgmentService

	// Models lists trained models.
	Models driving.ModelService

	// Settings supplies sampling defaults.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(pairs driving.PairService, judgments driving.JudgmentService) *Ports {
	return &Ports{
		Pairs:     pairs,
		Judgments: judgments,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Pairs == nil {
		return ErrMissingPairService
	}
	if p.Judgments == nil {
		return ErrMissingJudgmentService
	}
	return nil
}

// settings returns the configured settings, or defaults when they cannot be read.
func (p *Ports) settings() domain.AppSettings {
	if p.Settings != nil {
		if s, err := p.Settings.Get(); err == nil && s != nil {
			return *s
		}
	}
	return domain.DefaultAppSettings()
}
