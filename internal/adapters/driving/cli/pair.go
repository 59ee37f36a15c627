package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learningequality/alignpro/internal/core/domain"
)

var (
	pairModel          string
	pairPolicy         string
	pairGamma          float64
	pairLeftRoot       int64
	pairRightRoot      int64
	pairAllowSameDoc   bool
	pairIncludeNonLeaf bool
	pairPublishedOnly  bool
	pairSeed           uint64
	pairJSON           bool
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Draw node pairs for relevance judgment",
}

var pairNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Draw the next pair to judge",
	Long: `Draws a left node uniformly from the eligible nodes, then a right node
according to the scheduler policy.

Policies:
  weighted        - favour right nodes the model rates as likely matches
  uniform-random  - pick the right node uniformly

Flags that are not given fall back to the sampling.* settings.`,
	Args: cobra.NoArgs,
	RunE: runPairNext,
}

func init() {
	f := pairNextCmd.Flags()
	f.StringVarP(&pairModel, "model", "m", "", "trained model (default: models.default)")
	f.StringVar(&pairPolicy, "policy", "", "weighted or uniform-random (default: sampling.policy)")
	f.Float64Var(&pairGamma, "gamma", domain.DefaultGamma, "skew exponent for the weighted policy")
	f.Int64Var(&pairLeftRoot, "left-root", 0, "restrict the left node to this subtree")
	f.Int64Var(&pairRightRoot, "right-root", 0, "restrict the right node to this subtree")
	f.BoolVar(&pairAllowSameDoc, "allow-same-doc", false, "allow both nodes from the same document")
	f.BoolVar(&pairIncludeNonLeaf, "include-nonleaf", false, "allow nodes that have children")
	f.BoolVar(&pairPublishedOnly, "published-only", false, "skip nodes of draft documents")
	f.Uint64Var(&pairSeed, "seed", 0, "seed for a reproducible draw")
	f.BoolVar(&pairJSON, "json", false, "output as JSON")

	pairCmd.AddCommand(pairNextCmd)
	rootCmd.AddCommand(pairCmd)
}

// pairRequest builds the request from flags, falling back to settings for
// flags the user did not give.
func pairRequest(cmd *cobra.Command) domain.PairRequest {
	sampling := currentSettings().Sampling
	flags := cmd.Flags()

	req := domain.PairRequest{
		Model:             pairModel,
		Policy:            sampling.Policy,
		Gamma:             sampling.Gamma,
		AllowSameDocument: sampling.AllowSameDocument,
		IncludeNonLeaf:    sampling.IncludeNonLeaf,
		PublishedOnly:     pairPublishedOnly,
	}
	if flags.Changed("policy") {
		req.Policy = domain.SchedulerPolicy(pairPolicy)
	}
	if flags.Changed("gamma") {
		req.Gamma = pairGamma
	}
	if flags.Changed("allow-same-doc") {
		req.AllowSameDocument = pairAllowSameDoc
	}
	if flags.Changed("include-nonleaf") {
		req.IncludeNonLeaf = pairIncludeNonLeaf
	}
	if flags.Changed("left-root") {
		id := pairLeftRoot
		req.LeftRootID = &id
	}
	if flags.Changed("right-root") {
		id := pairRightRoot
		req.RightRootID = &id
	}
	if flags.Changed("seed") {
		seed := pairSeed
		req.Seed = &seed
	}
	return req
}

func runPairNext(cmd *cobra.Command, _ []string) error {
	if pairService == nil {
		return errors.New("pair service not configured")
	}

	pair, err := pairService.NextPair(cmd.Context(), pairRequest(cmd))
	if err != nil {
		return fmt.Errorf("drawing pair: %w", err)
	}

	if pairJSON {
		return printJSON(cmd, pair)
	}
	outputPair(cmd, pair)
	return nil
}

func outputPair(cmd *cobra.Command, pair *domain.SampledPair) {
	cmd.Printf("Pair (model %s, %s)\n", pair.Model, pair.Policy)
	cmd.Printf("  Left:   %s\n", describeNode(pair.Left, pair.LeftNode))
	cmd.Printf("  Right:  %s\n", describeNode(pair.Right, pair.RightNode))
	cmd.Printf("  Score:  %.4f\n", pair.Score)
	cmd.Printf("  Chance: %.4f\n", pair.Probability)
	if pair.UsedFallback {
		cmd.Println("  (skewed weights degenerated; raw weights used)")
	}
}
