// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/learningequality/alignpro/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewJudge draws pairs for rapid judgment.
	ViewJudge
	// ViewRecommend ranks nodes related to a target.
	ViewRecommend
	// ViewModels lists trained models.
	ViewModels
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewJudge:
		return "judge"
	case ViewRecommend:
		return "recommend"
	case ViewModels:
		return "models"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// PairLoaded carries the next pair to judge.
type PairLoaded struct {
	Pair *domain.SampledPair
	Err  error
}

// JudgmentRecorded signals a judgment was stored.
type JudgmentRecorded struct {
	Judgment *domain.Judgment
	Err      error
}

// RecommendationsLoaded carries a ranked list for a target node.
type RecommendationsLoaded struct {
	TargetID int64
	Result   *domain.RecommendResult
	Err      error
}

// ModelsLoaded carries the list of trained models.
type ModelsLoaded struct {
	Models       []domain.ModelInfo
	DefaultModel string
	Err          error
}

// RecommendRequested asks the app to open recommendations for a node.
type RecommendRequested struct {
	NodeID int64
}
