package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/learningequality/alignpro/internal/adapters/driving/tui/keymap"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/messages"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/styles"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/views/judge"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/views/menu"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/views/models"
	"github.com/learningequality/alignpro/internal/adapters/driving/tui/views/recommend"
	"github.com/learningequality/alignpro/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView      *menu.View
	judgeView     *judge.View
	recommendView *recommend.View
	modelsView    *models.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application. userID is attached to every
// judgment; uiVersion is recorded as the judgment's UI version hash.
func NewApp(ports *Ports, userID, uiVersion string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	menuView := menu.NewView(s)
	menuView.SetUser(userID)

	countFn := func() int { return ports.settings().Recommend.Count }

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        keymap.DefaultKeyMap(),
		menuView:      menuView,
		judgeView:     judge.NewView(s, ports.Pairs, ports.Judgments, ports.settings, userID, uiVersion),
		recommendView: recommend.NewView(s, ports.Recommend, countFn),
		modelsView:    models.NewView(s, ports.Models),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.judgeView.SetContext(ctx)
	a.recommendView.SetContext(ctx)
	a.modelsView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("alignpro"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.RecommendRequested:
		a.currentView = messages.ViewRecommend
		a.recommendView.Reset()
		return a, a.recommendView.Load(msg.NodeID)

	case messages.PairLoaded:
		if msg.Err != nil {
			logger.Debug("drawing pair: %v", msg.Err)
		}
		a.err = msg.Err
		a.judgeView, cmd = a.judgeView.Update(msg)
		return a, cmd

	case messages.JudgmentRecorded:
		if msg.Err != nil {
			logger.Warn("recording judgment: %v", msg.Err)
		}
		a.err = msg.Err
		a.judgeView, cmd = a.judgeView.Update(msg)
		return a, cmd

	case messages.RecommendationsLoaded:
		a.err = msg.Err
		a.recommendView, cmd = a.recommendView.Update(msg)
		return a, cmd

	case messages.ModelsLoaded:
		a.err = msg.Err
		a.modelsView, cmd = a.modelsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewJudge:
		a.judgeView, cmd = a.judgeView.Update(msg)
	case messages.ViewRecommend:
		a.recommendView, cmd = a.recommendView.Update(msg)
	case messages.ViewModels:
		a.modelsView, cmd = a.modelsView.Update(msg)
	case messages.ViewHelp:
		if km, ok := msg.(tea.KeyMsg); ok && keymap.Matches(km.String(), a.keymap.Back) {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// switchTo activates a view, initialising it where needed.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.err = nil

	switch view {
	case messages.ViewJudge:
		if a.judgeView.Pair() == nil && !a.judgeView.Busy() {
			return a.judgeView.Init()
		}
	case messages.ViewRecommend:
		a.recommendView.Reset()
		return a.recommendView.Init()
	case messages.ViewModels:
		return a.modelsView.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewJudge:
		return a.judgeView.View()
	case messages.ViewRecommend:
		return a.recommendView.View()
	case messages.ViewModels:
		return a.modelsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the keybinding reference.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	sections := []string{"Navigation", "Judging", "General"}
	for i, group := range a.keymap.FullHelp() {
		b.WriteString(a.styles.Subtitle.Render(sections[i]))
		b.WriteString("\n")
		for _, binding := range group {
			b.WriteString(helpLine(binding))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Judged returns how many judgments were recorded in this session.
func (a *App) Judged() int {
	return a.judgeView.Judged()
}

// SetDimensions sets the terminal dimensions on the app and its views.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.judgeView.SetDimensions(width, height)
	a.recommendView.SetDimensions(width, height)
	a.modelsView.SetDimensions(width, height)
}
