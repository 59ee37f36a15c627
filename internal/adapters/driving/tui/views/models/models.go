// Package models provides the trained model listing view for the TUI.
package models

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/learningequality/alignpro/internal/adapters/driving/tui/messages"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/styles"
	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
)

// View lists the trained models.
type View struct {
	styles  *styles.Styles
	service driving.ModelService
	ctx     context.Context

	models       []domain.ModelInfo
	defaultModel string
	selected     int
	loading      bool
	err          error

	width  int
	height int
}

// NewView creates a models view.
func NewView(s *styles.Styles, service driving.ModelService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the model list.
func (v *View) Init() tea.Cmd {
	if v.service == nil {
		return nil
	}
	v.loading = true
	ctx, service := v.ctx, v.service
	return func() tea.Msg {
		infos, err := service.List(ctx)
		return messages.ModelsLoaded{Models: infos, DefaultModel: service.DefaultModel(), Err: err}
	}
}

// Update handles messages for the models view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.ModelsLoaded:
		v.loading = false
		v.err = msg.Err
		v.models = msg.Models
		v.defaultModel = msg.DefaultModel
		v.selected = 0

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.models)-1 {
				v.selected++
			}
		case "R":
			return v, v.Init()
		}
	}
	return v, nil
}

// View renders the models view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Models"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading models..."))
	case len(v.models) == 0:
		b.WriteString(v.styles.Muted.Render("No trained models found"))
	default:
		for i, m := range v.models {
			b.WriteString(v.renderModel(i, m))
			b.WriteString("\n")
		}
		if m := v.models[v.selected]; m.NotebookURL != "" || m.TeamMembers != "" {
			b.WriteString("\n")
			if m.TeamMembers != "" {
				b.WriteString(v.styles.Muted.Render("team: " + m.TeamMembers))
				b.WriteString("\n")
			}
			if m.NotebookURL != "" {
				b.WriteString(v.styles.Muted.Render("notebook: " + m.NotebookURL))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [R] Reload  [Esc] Back"))
	return b.String()
}

func (v *View) renderModel(index int, m domain.ModelInfo) string {
	marker := "  "
	if m.Name == v.defaultModel {
		marker = "* "
	}
	version := m.Version
	if version == "" {
		version = "-"
	}

	line := fmt.Sprintf("%s%-20s %-12s %8s  %s", marker, m.Name, version,
		humanize.Bytes(uint64(max(m.SizeBytes, 0))), humanize.Time(m.ModTime))
	if index == v.selected {
		return v.styles.Selected.Render(line)
	}
	return v.styles.Normal.Render(line)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Models returns the loaded models.
func (v *View) Models() []domain.ModelInfo {
	return v.models
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
