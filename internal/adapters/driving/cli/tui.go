package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/learningequality/alignpro/internal/adapters/driving/tui"
	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	Scheduler       driving.Scheduler
	SchedulerConfig domain.SchedulerConfig

	// UserID is recorded on judgments made in the TUI.
	UserID string
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

var tuiUser string

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for alignpro.

The TUI draws pairs of curriculum nodes for rapid relevance judgment and
browses recommendations for a node. Background model evaluation runs while
it is open.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select
  0 / 1 / 2 - Judge: unrelated / partial / related
  s        - Skip pair
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiUser, "user", "u", "", "annotator identifier recorded on judgments")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isTerminal() {
		return errors.New("the TUI needs an interactive terminal")
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Start scheduler if enabled (TUI is long-running, needs background tasks)
	if tuiConfig != nil && tuiConfig.SchedulerConfig.Enabled && tuiConfig.Scheduler != nil {
		schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
		defer schedulerCancel()

		go func() {
			if err := tuiConfig.Scheduler.Start(schedulerCtx); err != nil {
				fmt.Fprintf(os.Stderr, "scheduler stopped: %v\n", err)
			}
		}()

		defer func() {
			if err := tuiConfig.Scheduler.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "scheduler stop error: %v\n", err)
			}
		}()
	}

	ports := &tui.Ports{
		Pairs:     pairService,
		Recommend: recommendService,
		Judgments: judgmentService,
		Models:    modelService,
		Settings:  settingsService,
	}

	user := tuiUser
	if user == "" && tuiConfig != nil {
		user = tuiConfig.UserID
	}

	app, err := tui.NewApp(ports, user, version)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
