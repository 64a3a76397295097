// ABOUTME: CLI command for importing provider export files.
// ABOUTME: Reads Garmin-style JSON and upserts samples and activities.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/importer"
)

var importCmd = &cobra.Command{
	Use:     "import <file>",
	Aliases: []string{"i"},
	Short:   "Import a provider export",
	Long: `Import daily samples and activities from a provider export file.

The file is JSON with two top-level arrays:

  {
    "dailies": [
      {"date": "2026-08-15", "hrv_ms": 52, "resting_hr_bpm": 48,
       "sleep_seconds": 27000, "training_readiness_score": 71}
    ],
    "activities": [
      {"id": "run-123", "date": "2026-08-15", "name": "Tempo run",
       "training_load": 85, "duration_seconds": 3600}
    ]
  }

Imports are idempotent: samples upsert by date, activities by their
provider ID. Malformed records are skipped and counted, never fatal.

EXAMPLES:

  readiness import garmin-export.json
  cat export.json | readiness import -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()
			reader = f
		}

		summary, err := importer.Import(repo, reader, logger)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		svc.ClearCache()

		color.Green("✓ Imported %d sample(s), %d activity(ies)", summary.Samples, summary.Activities)
		if summary.Skipped > 0 {
			color.Yellow("⚠ Skipped %d malformed record(s)", summary.Skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
