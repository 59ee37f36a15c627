package cli

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change alignpro settings stored in config.toml.

Settings are addressed by dotted keys, e.g. "sampling.gamma".`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting by its dotted key.

Keys:
  models.dir                    directory holding one folder per model
  models.default                model used when none is named
  storage.dsn                   empty for SQLite, or a postgres:// URL
  sampling.policy               weighted or uniform-random
  sampling.gamma                skew exponent for the weighted policy
  sampling.include_nonleaf      true or false
  sampling.allow_same_document  true or false
  recommend.count               results when no threshold or count is given
  judgments.test_proportion     share of judgments held out for testing
  evaluation.interval_minutes   background evaluation interval (0 = off)
  mcp.rate_limit                MCP HTTP requests per second (0 = unlimited)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Models]")
	cmd.Printf("  Directory: %s\n", settings.Models.Dir)
	cmd.Printf("  Default: %s\n", settings.Models.Default)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Database: %s\n", describeDSN(settings.Storage.DSN))
	cmd.Println()

	cmd.Println("[Sampling]")
	cmd.Printf("  Policy: %s\n", settings.Sampling.Policy.Description())
	cmd.Printf("  Gamma: %g\n", settings.Sampling.Gamma)
	cmd.Printf("  Include non-leaf nodes: %t\n", settings.Sampling.IncludeNonLeaf)
	cmd.Printf("  Allow same document: %t\n", settings.Sampling.AllowSameDocument)
	cmd.Println()

	cmd.Println("[Recommend]")
	cmd.Printf("  Default count: %d\n", settings.Recommend.Count)
	cmd.Println()

	cmd.Println("[Judgments]")
	cmd.Printf("  Test proportion: %g\n", settings.Judgments.TestProportion)
	cmd.Println()

	cmd.Println("[Evaluation]")
	if settings.Evaluation.IntervalMinutes > 0 {
		cmd.Printf("  Interval: every %d minutes\n", settings.Evaluation.IntervalMinutes)
	} else {
		cmd.Println("  Interval: disabled")
	}
	cmd.Println()

	cmd.Println("[MCP]")
	cmd.Printf("  Rate limit: %s\n", describeRateLimit(settings.MCP.RateLimit))

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

// describeDSN hides credentials in a database DSN.
func describeDSN(dsn string) string {
	if dsn == "" {
		return "SQLite (default location)"
	}
	return maskDSN(dsn)
}

func describeRateLimit(perSecond float64) string {
	if perSecond <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%g requests/second", perSecond)
}

// maskDSN redacts the password of a URL-style DSN.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
