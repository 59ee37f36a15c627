package mcp

import (
	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pairs draws node pairs to judge.
	Pairs driving.PairService

	// Models lists trained models.
	Models driving.ModelService

	// Recommend ranks related nodes. Optional.
	Recommend driving.RecommendService

	// Judgments records judgments. Optional.
	Judgments driving.JudgmentService

	// Nodes reads curriculum nodes. Optional.
	Nodes driving.NodeService

	// Settings supplies request defaults. Optional; built-in defaults apply.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pairs == nil {
		return ErrMissingPairService
	}
	if p.Models == nil {
		return ErrMissingModelService
	}
	return nil
}

// settings returns the configured settings, or the defaults when none are
// available.
func (p *Ports) settings() domain.AppSettings {
	if p.Settings != nil {
		if s, err := p.Settings.Get(); err == nil && s != nil {
			return *s
		}
	}
	return domain.DefaultAppSettings()
}
