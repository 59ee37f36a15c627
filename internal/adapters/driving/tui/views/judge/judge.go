// Package judge provides the rapid pair judgment view for the TUI.
package judge

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/learningequality/alignpro/internal/adapters/driving/tui/components/status"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/keymap"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/messages"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/styles"
	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
)

// UIName identifies judgments recorded through the TUI.
const UIName = "tui"

// View draws pairs and records a rating per keypress.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusBar *status.Bar

	pairs     driving.PairService
	judgments driving.JudgmentService
	settings  func() domain.AppSettings

	ctx       context.Context
	user      string
	uiVersion string

	pair    *domain.SampledPair
	busy    bool
	err     error
	judged  int
	message string

	width  int
	height int
}

// NewView creates a judge view. settings supplies the sampling defaults each
// time a pair is drawn.
func NewView(
	s *styles.Styles,
	pairs driving.PairService,
	judgments driving.JudgmentService,
	settings func() domain.AppSettings,
	user, uiVersion string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if settings == nil {
		settings = domain.DefaultAppSettings
	}
	km := keymap.DefaultKeyMap()

	return &View{
		styles:    s,
		keymap:    km,
		statusBar: status.NewBar(s, km),
		pairs:     pairs,
		judgments: judgments,
		settings:  settings,
		ctx:       context.Background(),
		user:      user,
		uiVersion: uiVersion,
		width:     80,
		height:    24,
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init draws the first pair.
func (v *View) Init() tea.Cmd {
	return v.loadPair()
}

// Update handles messages for the judge view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.PairLoaded:
		v.busy = false
		v.err = msg.Err
		if msg.Err == nil {
			v.pair = msg.Pair
		} else {
			v.pair = nil
		}
		return v, nil

	case messages.JudgmentRecorded:
		if msg.Err != nil {
			v.busy = false
			v.err = msg.Err
			return v, nil
		}
		v.judged++
		v.message = "Recorded"
		if msg.Judgment != nil {
			v.message = "Recorded " + ratingLabel(msg.Judgment.Rating)
		}
		return v, v.loadPair()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, tea.Quit
	}

	if v.busy {
		return v, nil
	}

	if rating, ok := v.keymap.Rating(keyStr); ok {
		if v.pair == nil {
			return v, nil
		}
		return v, v.record(rating)
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Skip):
		v.message = "Skipped"
		return v, v.loadPair()
	case keymap.Matches(keyStr, v.keymap.Recommend):
		if v.pair == nil {
			return v, nil
		}
		id := v.pair.Left
		return v, func() tea.Msg { return messages.RecommendRequested{NodeID: id} }
	}
	return v, nil
}

// loadPair marks the view busy and returns a command that draws a pair.
func (v *View) loadPair() tea.Cmd {
	if v.pairs == nil {
		return nil
	}
	v.busy = true
	v.err = nil

	sampling := v.settings().Sampling
	req := domain.PairRequest{
		Policy:            sampling.Policy,
		Gamma:             sampling.Gamma,
		AllowSameDocument: sampling.AllowSameDocument,
		IncludeNonLeaf:    sampling.IncludeNonLeaf,
	}
	ctx, pairs := v.ctx, v.pairs

	return func() tea.Msg {
		pair, err := pairs.NextPair(ctx, req)
		return messages.PairLoaded{Pair: pair, Err: err}
	}
}

// record marks the view busy and returns a command that stores a rapid judgment.
func (v *View) record(rating float64) tea.Cmd {
	if v.judgments == nil {
		return nil
	}
	v.busy = true

	j := domain.Judgment{
		Node1ID:       v.pair.Left,
		Node2ID:       v.pair.Right,
		Rating:        rating,
		Mode:          domain.JudgmentModeRapid,
		UIName:        UIName,
		UIVersionHash: v.uiVersion,
		UserID:        v.user,
		ExtraFields: map[string]any{
			"model":  v.pair.Model,
			"policy": string(v.pair.Policy),
			"score":  v.pair.Score,
		},
	}
	ctx, judgments := v.ctx, v.judgments

	return func() tea.Msg {
		saved, err := judgments.Record(ctx, j)
		return messages.JudgmentRecorded{Judgment: saved, Err: err}
	}
}

// View renders the judge view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Judge pairs"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		if hint := domain.Hint(v.err); hint != "" {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render("hint: " + hint))
		}
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[s] Try again  [Esc] Back"))
	case v.pair == nil:
		b.WriteString(v.styles.Muted.Render("Drawing a pair..."))
	default:
		b.WriteString(v.renderPair())
	}

	b.WriteString("\n\n")
	v.statusBar.SetJudged(v.judged)
	v.statusBar.SetMessage(v.message)
	switch {
	case v.err != nil:
		v.statusBar.SetState(status.StateError)
		v.statusBar.SetMessage("")
	case v.busy:
		v.statusBar.SetState(status.StateLoading)
	default:
		v.statusBar.SetState(status.StateJudging)
	}
	b.WriteString(v.statusBar.View())

	return b.String()
}

func (v *View) renderPair() string {
	cardWidth := (v.width - 6) / 2
	if cardWidth < 20 {
		cardWidth = 20
	}

	left := v.renderCard("A", v.pair.Left, v.pair.LeftNode, cardWidth)
	right := v.renderCard("B", v.pair.Right, v.pair.RightNode, cardWidth)
	cards := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	meta := fmt.Sprintf("model %s · %s", v.pair.Model, v.pair.Policy)
	if v.pair.UsedFallback {
		meta += " · fallback"
	}

	prompt := fmt.Sprintf("How related are A and B?  %s  %s  %s",
		v.styles.Rating(domain.RatingUnrelated).Render("[0] unrelated"),
		v.styles.Rating(domain.RatingPartial).Render("[1] partial"),
		v.styles.Rating(domain.RatingRelated).Render("[2] related"),
	)

	return cards + "\n" + v.styles.Muted.Render(meta) + "\n\n" + prompt
}

func (v *View) renderCard(label string, id int64, node *domain.Node, width int) string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%s  [%d]", label, id)))
	b.WriteString("\n")
	if node == nil {
		b.WriteString(v.styles.Muted.Render("(node details unavailable)"))
	} else {
		b.WriteString(v.styles.Normal.Render(node.String()))
		if node.Notes != "" {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(node.Notes))
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%s · depth %d", node.Kind, node.Depth)))
	}
	return v.styles.Card.Width(width).Render(b.String())
}

func ratingLabel(rating float64) string {
	switch rating {
	case domain.RatingUnrelated:
		return "unrelated"
	case domain.RatingPartial:
		return "partial"
	case domain.RatingRelated:
		return "related"
	default:
		return fmt.Sprintf("%.2f", rating)
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusBar.SetWidth(width)
}

// Pair returns the pair being judged.
func (v *View) Pair() *domain.SampledPair {
	return v.pair
}

// Judged returns how many judgments were recorded in this session.
func (v *View) Judged() int {
	return v.judged
}

// Busy reports whether a draw or save is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
