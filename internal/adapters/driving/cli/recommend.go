package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/learningequality/alignpro/internal/core/domain"
)

var (
	recommendModel          string
	recommendThreshold      float64
	recommendCount          int
	recommendIncludeSameDoc bool
	recommendJSON           bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [node-id]",
	Short: "Recommend nodes related to a target node",
	Long: `Ranks the nodes covered by the model by predicted relevance to the
target node, highest first. Nodes from the target's own document are
skipped unless --include-same-doc is given.

Without --threshold or --count the result is cut to recommend.count entries.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	f := recommendCmd.Flags()
	f.StringVarP(&recommendModel, "model", "m", "", "trained model (default: models.default)")
	f.Float64Var(&recommendThreshold, "threshold", 0, "only return nodes scoring above this")
	f.IntVarP(&recommendCount, "count", "n", 0, "maximum number of results")
	f.BoolVar(&recommendIncludeSameDoc, "include-same-doc", false, "keep nodes from the target's document")
	f.BoolVar(&recommendJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if recommendService == nil {
		return errors.New("recommend service not configured")
	}

	target, err := parseNodeID(args[0])
	if err != nil {
		return err
	}

	req := domain.RecommendRequest{
		Model:               recommendModel,
		TargetID:            target,
		IncludeSameDocument: recommendIncludeSameDoc,
	}
	if cmd.Flags().Changed("threshold") {
		t := recommendThreshold
		req.Threshold = &t
	}
	if cmd.Flags().Changed("count") {
		n := recommendCount
		req.Count = &n
	}
	req.ApplyDefaultCount(currentSettings().Recommend.Count)

	result, err := recommendService.Recommend(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("recommend failed: %w", err)
	}

	if recommendJSON {
		return printJSON(cmd, result)
	}
	outputRecommendations(cmd, target, result)
	return nil
}

func outputRecommendations(cmd *cobra.Command, target int64, result *domain.RecommendResult) {
	cmd.Printf("Related to %s (model %s)\n", describeNode(target, result.Target), result.Model)
	cmd.Println()

	if len(result.Items) == 0 {
		cmd.Println("No related nodes found.")
		return
	}
	for i, item := range result.Items {
		cmd.Printf("  %2d. %.4f  %s\n", i+1, item.Score, describeNode(item.NodeID, item.Node))
	}
	if result.Total > len(result.Items) {
		cmd.Printf("\n  showing %d of %d\n", len(result.Items), result.Total)
	}
}

// parseNodeID parses a positive node id argument.
func parseNodeID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid node id %q", domain.ErrInvalidInput, s)
	}
	return id, nil
}
