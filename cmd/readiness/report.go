// ABOUTME: CLI command writing a markdown readiness report.
// ABOUTME: Renders the verdict and saves it under the data directory.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/report"
)

var reportStdout bool

var reportCmd = &cobra.Command{
	Use:     "report [date]",
	Aliases: []string{"r"},
	Short:   "Write a markdown report",
	Long: `Render the readiness verdict for a date (default: today) as markdown.

Reports are saved under the data directory:

  <data-dir>/reports/YYYY/MM/YYYY-MM-DD-readiness.md

EXAMPLES:

  readiness report                 # Write today's report
  readiness report 2026-08-15      # Report for a specific date
  readiness report --stdout        # Print instead of saving`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(args)
		if err != nil {
			return err
		}

		verdict, err := svc.Readiness(date, cfg.GetLocale())
		if err != nil {
			return fmt.Errorf("failed to evaluate readiness: %w", err)
		}

		if reportStdout {
			fmt.Print(report.Render(verdict))
			return nil
		}

		path, err := report.Write(cfg.GetDataDir(), verdict)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		color.Green("✓ Report written to %s", path)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportStdout, "stdout", false, "print to stdout instead of saving")
	rootCmd.AddCommand(reportCmd)
}
