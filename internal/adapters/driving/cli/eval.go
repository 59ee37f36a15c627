package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/learningequality/alignpro/internal/core/domain"
)

var evalJSON bool

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate models against recorded judgments",
}

var evalRunCmd = &cobra.Command{
	Use:   "run [model]",
	Short: "Evaluate a model now and store the result",
	Long: `Scores every judgment whose nodes the model covers and reports, per
split, the mean percentile of the predicted score for each rating and the
mean rank of the best and worst related partner.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvalRun,
}

var evalShowCmd = &cobra.Command{
	Use:   "show [model]",
	Short: "Show the last stored evaluation of a model",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEvalShow,
}

func init() {
	evalRunCmd.Flags().BoolVar(&evalJSON, "json", false, "output as JSON")
	evalShowCmd.Flags().BoolVar(&evalJSON, "json", false, "output as JSON")
	evalCmd.AddCommand(evalRunCmd)
	evalCmd.AddCommand(evalShowCmd)
	rootCmd.AddCommand(evalCmd)
}

func evalModelArg(args []string) (string, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return resolveModel(name)
}

func runEvalRun(cmd *cobra.Command, args []string) error {
	if evaluationService == nil {
		return errors.New("evaluation service not configured")
	}
	model, err := evalModelArg(args)
	if err != nil {
		return err
	}

	eval, err := evaluationService.Evaluate(cmd.Context(), model)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", model, err)
	}
	if evalJSON {
		return printJSON(cmd, eval)
	}
	outputEvaluation(cmd, eval)
	return nil
}

func runEvalShow(cmd *cobra.Command, args []string) error {
	if evaluationService == nil {
		return errors.New("evaluation service not configured")
	}
	model, err := evalModelArg(args)
	if err != nil {
		return err
	}

	eval, err := evaluationService.Latest(cmd.Context(), model)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Printf("Model %s has not been evaluated yet. Run: alignpro eval run %s\n", model, model)
		return nil
	}
	if err != nil {
		return err
	}
	if evalJSON {
		return printJSON(cmd, eval)
	}
	outputEvaluation(cmd, eval)
	return nil
}

func outputEvaluation(cmd *cobra.Command, eval *domain.ModelEvaluation) {
	cmd.Printf("Evaluation of %s", eval.Model)
	if eval.Version != "" {
		cmd.Printf(" (version %s)", eval.Version)
	}
	cmd.Printf(", %s\n", eval.EvaluatedAt.Format("2006-01-02 15:04:05 MST"))
	cmd.Println()
	outputSplit(cmd, "Training", eval.Training)
	cmd.Println()
	outputSplit(cmd, "Testing", eval.Testing)
}

func outputSplit(cmd *cobra.Command, name string, m domain.SplitMetrics) {
	cmd.Printf("[%s] %d judgments\n", name, m.Judgments)
	if m.Judgments == 0 {
		return
	}

	ratings := make([]string, 0, len(m.MeanPercentile))
	for r := range m.MeanPercentile {
		ratings = append(ratings, r)
	}
	sort.Strings(ratings)
	for _, r := range ratings {
		cmd.Printf("  rating %-3s  mean percentile %6.2f  (%d)\n", r, m.MeanPercentile[r], m.RatingCounts[r])
	}
	if m.PositiveNodes > 0 {
		cmd.Printf("  related partners of %d nodes: mean best rank %.2f, mean worst rank %.2f\n",
			m.PositiveNodes, m.MeanBestRank, m.MeanWorstRank)
	}
}
