// Package recommend provides the related-node recommendation view for the TUI.
package recommend

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/learningequality/alignpro/internal/adapters/driving/tui/components/input"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/components/list"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/messages"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/styles"
	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
)

// View asks for a node id and lists the nodes most related to it.
type View struct {
	styles  *styles.Styles
	input   *input.NodeInput
	list    *list.RecommendationList
	service driving.RecommendService
	count   func() int
	ctx     context.Context

	target  *domain.Node
	model   string
	loading bool
	showing bool
	err     error

	width  int
	height int
}

// NewView creates a recommend view. count supplies the default result count.
func NewView(s *styles.Styles, service driving.RecommendService, count func() int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if count == nil {
		count = func() int { return domain.DefaultRecommendCount }
	}

	return &View{
		styles:  s,
		input:   input.NewNodeInput(s, "Node:"),
		list:    list.NewRecommendationList(s),
		service: service,
		count:   count,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init focuses the input.
func (v *View) Init() tea.Cmd {
	return v.input.Focus()
}

// Reset clears the input and results.
func (v *View) Reset() {
	v.input.Reset()
	v.input.Focus()
	v.list.SetItems(nil)
	v.target = nil
	v.model = ""
	v.showing = false
	v.loading = false
	v.err = nil
}

// Load requests recommendations for a node.
func (v *View) Load(nodeID int64) tea.Cmd {
	v.input.SetValue(fmt.Sprintf("%d", nodeID))
	v.input.Blur()
	v.loading = true
	v.showing = true
	v.err = nil

	if v.service == nil {
		v.loading = false
		v.err = fmt.Errorf("recommendations are not available")
		return nil
	}

	req := domain.RecommendRequest{TargetID: nodeID}
	req.ApplyDefaultCount(v.count())
	ctx, service := v.ctx, v.service

	return func() tea.Msg {
		result, err := service.Recommend(ctx, req)
		return messages.RecommendationsLoaded{TargetID: nodeID, Result: result, Err: err}
	}
}

// Update handles messages for the recommend view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.RecommendationsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err != nil || msg.Result == nil {
			v.list.SetItems(nil)
			v.target = nil
			return v, nil
		}
		v.target = msg.Result.Target
		v.model = msg.Result.Model
		v.list.SetItems(msg.Result.Items)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	if v.input.Focused() {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only a few keys have meaning here
	switch msg.Type {
	case tea.KeyEsc:
		if v.showing {
			v.showing = false
			v.err = nil
			return v, v.input.Focus()
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case tea.KeyEnter:
		if !v.showing {
			id, ok := v.input.NodeID()
			if !ok {
				v.err = fmt.Errorf("%w: enter a positive node id", domain.ErrInvalidInput)
				return v, nil
			}
			return v, v.Load(id)
		}
		if item := v.list.SelectedItem(); item != nil && !v.loading {
			return v, v.Load(item.NodeID)
		}
		return v, nil
	}

	if !v.showing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// View renders the recommend view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Recommendations"))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		if hint := domain.Hint(v.err); hint != "" {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render("hint: " + hint))
		}
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Ranking..."))
	case v.showing:
		if v.target != nil {
			b.WriteString(v.styles.Subtitle.Render(
				fmt.Sprintf("Related to [%d] %s (model %s)", v.target.ID, v.target.String(), v.model)))
			b.WriteString("\n\n")
		}
		b.WriteString(v.list.View())
	}

	b.WriteString("\n\n")
	if v.showing {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Drill down  [Esc] New node"))
	} else {
		b.WriteString(v.styles.Help.Render("[Enter] Rank  [Esc] Back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-10)
}

// Target returns the node whose recommendations are shown.
func (v *View) Target() *domain.Node {
	return v.target
}

// Items returns the shown recommendations.
func (v *View) Items() []domain.Recommendation {
	return v.list.Items()
}

// Showing reports whether results (rather than the input) have focus.
func (v *View) Showing() bool {
	return v.showing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
