package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/learningequality/alignpro/internal/core/domain"
)

var modelJSON bool

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect trained models",
}

var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trained models",
	Args:  cobra.NoArgs,
	RunE:  runModelList,
}

var modelInfoCmd = &cobra.Command{
	Use:   "info [name]",
	Short: "Show details of a trained model",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelInfo,
}

func init() {
	modelListCmd.Flags().BoolVar(&modelJSON, "json", false, "output as JSON")
	modelCmd.AddCommand(modelListCmd)
	modelCmd.AddCommand(modelInfoCmd)
	rootCmd.AddCommand(modelCmd)
}

func runModelList(cmd *cobra.Command, _ []string) error {
	if modelService == nil {
		return errors.New("model service not configured")
	}

	infos, err := modelService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}

	if modelJSON {
		return printJSON(cmd, infos)
	}

	if len(infos) == 0 {
		cmd.Println("No trained models found.")
		return nil
	}

	defaultModel := modelService.DefaultModel()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tVERSION\tSIZE\tUPDATED")
	for _, info := range infos {
		marker := " "
		if info.Name == defaultModel {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n",
			marker, info.Name, orDash(info.Version),
			humanize.Bytes(uint64(max(info.SizeBytes, 0))), humanize.Time(info.ModTime))
	}
	return w.Flush()
}

func runModelInfo(cmd *cobra.Command, args []string) error {
	if modelService == nil {
		return errors.New("model service not configured")
	}

	info, err := modelService.Info(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("model %s: %w", args[0], err)
	}
	outputModelInfo(cmd, info)
	return nil
}

func outputModelInfo(cmd *cobra.Command, info domain.ModelInfo) {
	cmd.Printf("Model:    %s\n", info.Name)
	cmd.Printf("Version:  %s\n", orDash(info.Version))
	cmd.Printf("Git hash: %s\n", orDash(info.GitHash))
	if info.NotebookURL != "" {
		cmd.Printf("Notebook: %s\n", info.NotebookURL)
	}
	if info.TeamMembers != "" {
		cmd.Printf("Team:     %s\n", info.TeamMembers)
	}
	cmd.Printf("Nodes:    %s\n", humanize.Comma(int64(info.Rows)))
	cmd.Printf("Size:     %s\n", humanize.Bytes(uint64(max(info.SizeBytes, 0))))
	cmd.Printf("Updated:  %s (%s)\n", info.ModTime.Format("2006-01-02 15:04:05"), humanize.Time(info.ModTime))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
