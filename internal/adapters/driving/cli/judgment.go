package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// cliUIName identifies judgments recorded from the command line.
const cliUIName = "cli"

var (
	judgmentRating      float64
	judgmentConfidence  float64
	judgmentUser        string
	judgmentMode        string
	judgmentNode        int64
	judgmentIncludeTest bool
	judgmentLimit       int
	leaderboardLimit    int
	judgmentJSON        bool
)

var judgmentCmd = &cobra.Command{
	Use:   "judgment",
	Short: "Record and review human relevance judgments",
}

var judgmentAddCmd = &cobra.Command{
	Use:   "add [node1-id] [node2-id]",
	Short: "Record a relevance judgment between two nodes",
	Long: `Records how related two nodes are, from 0 (unrelated) to 1 (related).
Rapid annotation uses 0, 0.5 and 1.

A share of new judgments (judgments.test_proportion) is held out as
testing data for model evaluation.`,
	Args: cobra.ExactArgs(2),
	RunE: runJudgmentAdd,
}

var judgmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded judgments",
	Long:  `Lists training judgments, newest first. Use --include-test to add held-out testing judgments.`,
	Args:  cobra.NoArgs,
	RunE:  runJudgmentList,
}

var judgmentLeaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Count judgments per annotator",
	Args:  cobra.NoArgs,
	RunE:  runJudgmentLeaderboard,
}

func init() {
	af := judgmentAddCmd.Flags()
	af.Float64VarP(&judgmentRating, "rating", "r", 0, "relevance between 0 and 1")
	af.Float64Var(&judgmentConfidence, "confidence", 0, "annotator confidence between 0 and 1")
	af.StringVarP(&judgmentUser, "user", "u", "", "annotator identifier")
	af.StringVar(&judgmentMode, "mode", string(domain.JudgmentModeManual), "manual or rapid")
	_ = judgmentAddCmd.MarkFlagRequired("rating")

	lf := judgmentListCmd.Flags()
	lf.Int64Var(&judgmentNode, "node", 0, "only judgments involving this node")
	lf.StringVarP(&judgmentUser, "user", "u", "", "only judgments by this annotator")
	lf.BoolVar(&judgmentIncludeTest, "include-test", false, "include held-out testing judgments")
	lf.IntVarP(&judgmentLimit, "limit", "n", 50, "maximum number of results (0 = all)")
	lf.BoolVar(&judgmentJSON, "json", false, "output as JSON")

	judgmentLeaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", 10, "number of annotators to show (0 = all)")

	judgmentCmd.AddCommand(judgmentAddCmd)
	judgmentCmd.AddCommand(judgmentListCmd)
	judgmentCmd.AddCommand(judgmentLeaderboardCmd)
	rootCmd.AddCommand(judgmentCmd)
}

func runJudgmentAdd(cmd *cobra.Command, args []string) error {
	if judgmentService == nil {
		return errors.New("judgment service not configured")
	}

	node1, err := parseNodeID(args[0])
	if err != nil {
		return err
	}
	node2, err := parseNodeID(args[1])
	if err != nil {
		return err
	}

	j := domain.Judgment{
		Node1ID:       node1,
		Node2ID:       node2,
		Rating:        judgmentRating,
		Mode:          domain.JudgmentMode(judgmentMode),
		UserID:        judgmentUser,
		UIName:        cliUIName,
		UIVersionHash: version,
	}
	if cmd.Flags().Changed("confidence") {
		c := judgmentConfidence
		j.Confidence = &c
	}

	recorded, err := judgmentService.Record(cmd.Context(), j)
	if err != nil {
		return fmt.Errorf("recording judgment: %w", err)
	}

	split := "training"
	if recorded.IsTest() {
		split = "testing"
	}
	cmd.Printf("Recorded judgment %s (%s split)\n", recorded.ID, split)
	return nil
}

func runJudgmentList(cmd *cobra.Command, _ []string) error {
	if judgmentService == nil {
		return errors.New("judgment service not configured")
	}

	filter := domain.JudgmentFilter{UserID: judgmentUser, Limit: judgmentLimit}
	if cmd.Flags().Changed("node") {
		id := judgmentNode
		filter.NodeID = &id
	}
	if !judgmentIncludeTest {
		training := false
		filter.IsTestData = &training
	}

	judgments, err := judgmentService.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("listing judgments: %w", err)
	}

	if judgmentJSON {
		return printJSON(cmd, judgments)
	}

	if len(judgments) == 0 {
		cmd.Println("No judgments found.")
		return nil
	}
	for i := range judgments {
		j := &judgments[i]
		test := ""
		if j.IsTest() {
			test = " [test]"
		}
		cmd.Printf("  %s  %d <-> %d  rating %s  %s  %s%s\n",
			shortID(j.ID), j.Node1ID, j.Node2ID, strconv.FormatFloat(j.Rating, 'g', -1, 64),
			orDash(j.UserID), humanize.Time(j.CreatedAt), test)
	}
	return nil
}

func runJudgmentLeaderboard(cmd *cobra.Command, _ []string) error {
	if judgmentService == nil {
		return errors.New("judgment service not configured")
	}

	entries, err := judgmentService.Leaderboard(cmd.Context(), leaderboardLimit)
	if err != nil {
		return fmt.Errorf("leaderboard: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No judgments by named annotators yet.")
		return nil
	}
	cmd.Println("Leaderboard")
	for i, e := range entries {
		cmd.Printf("  %2d. %-20s %s\n", i+1, e.UserID, humanize.Comma(int64(e.Count)))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
