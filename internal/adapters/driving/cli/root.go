// Package cli provides the cobra command tree for alignpro.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learningequality/alignpro/internal/core/domain"
	"github.com/learningequality/alignpro/internal/core/ports/driving"
	"github.com/learningequality/alignpro/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var verbose bool

// Services used by the commands. Set by the composition root.
var (
	pairService       driving.PairService
	recommendService  driving.RecommendService
	modelService      driving.ModelService
	judgmentService   driving.JudgmentService
	evaluationService driving.EvaluationService
	nodeService       driving.NodeService
	settingsService   driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "alignpro",
	Short: "Curriculum alignment: sample pairs to judge and recommend related standards",
	Long: `alignpro serves trained curriculum-similarity models.

It draws pairs of curricular standards for human relevance judgment,
recommends related standards for a target node, records judgments and
evaluates models against them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services bundles the driving ports the commands use.
type Services struct {
	Pairs       driving.PairService
	Recommend   driving.RecommendService
	Models      driving.ModelService
	Judgments   driving.JudgmentService
	Evaluations driving.EvaluationService
	Nodes       driving.NodeService
	Settings    driving.SettingsService
}

// SetServices configures the services used by all commands.
func SetServices(s Services) {
	pairService = s.Pairs
	recommendService = s.Recommend
	modelService = s.Models
	judgmentService = s.Judgments
	evaluationService = s.Evaluations
	nodeService = s.Nodes
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Errors carrying a domain hint are
// followed by the hint on stderr.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if hint := domain.Hint(err); hint != "" {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "hint: %s\n", hint)
		}
	}
	return err
}

// currentSettings returns the stored settings, or the defaults when no
// settings service is configured or the settings cannot be read.
func currentSettings() domain.AppSettings {
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s != nil {
			return *s
		}
		logger.Warn("reading settings failed, using defaults")
	}
	return domain.DefaultAppSettings()
}

// resolveModel returns name, or the default model when name is empty.
func resolveModel(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if modelService == nil {
		return "", errors.New("model service not configured")
	}
	return modelService.DefaultModel(), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// describeNode formats a node as "[id] identifier title".
func describeNode(id int64, n *domain.Node) string {
	if n == nil {
		return fmt.Sprintf("[%d]", id)
	}
	return fmt.Sprintf("[%d] %s", id, n.String())
}
