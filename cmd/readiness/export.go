// ABOUTME: CLI command for exporting all stored data.
// ABOUTME: Writes the full dataset as JSON or YAML.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/storage"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Export all data",
	Long: `Export all samples, activities, and alerts.

FORMATS:

  json    structured JSON (default)
  yaml    YAML

EXAMPLES:

  readiness export                        # JSON to stdout
  readiness export -f yaml                # YAML to stdout
  readiness export -o backup.json        # JSON to file
  readiness export -f yaml -o backup.yml # YAML to file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := repo.GetAllData()
		if err != nil {
			return fmt.Errorf("failed to read data: %w", err)
		}

		out, err := storage.MarshalExport(data, exportFormat)
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}

		if exportOutput == "" {
			fmt.Print(string(out))
			return nil
		}

		if err := os.WriteFile(exportOutput, out, 0o600); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}
		color.Green("✓ Exported %d sample(s), %d activity(ies), %d alert(s) to %s",
			len(data.Samples), len(data.Activities), len(data.Alerts), exportOutput)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore from an export file",
	Long: `Restore data from a previous 'readiness export'.

Records merge into the local store by identity (sample date, activity
ID, alert ID); existing rows are overwritten, nothing is deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read restore file: %w", err)
		}

		data, err := storage.UnmarshalExport(raw)
		if err != nil {
			return fmt.Errorf("failed to parse restore file: %w", err)
		}

		if err := repo.ImportData(data); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		svc.ClearCache()

		color.Green("✓ Restored %d sample(s), %d activity(ies), %d alert(s)",
			len(data.Samples), len(data.Activities), len(data.Alerts))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format (json, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
}
