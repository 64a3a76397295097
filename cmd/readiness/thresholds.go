// ABOUTME: CLI commands for inspecting and editing risk thresholds.
// ABOUTME: Supports printing effective values and writing defaults to disk.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/readiness"
)

var thresholdsForce bool

var thresholdsCmd = &cobra.Command{
	Use:     "thresholds",
	Aliases: []string{"th"},
	Short:   "Inspect risk thresholds",
	Long: `Inspect the risk thresholds currently in effect.

Thresholds come from thresholds.json in the config directory, merged
over the built-in defaults. Fields you omit keep their defaults, so a
partial file like this is enough to soften one rule:

  {"overtraining": {"hrv_drop_pct": {"warning": 20}}}

COMMANDS:

  thresholds          Print the effective thresholds as JSON
  thresholds init     Write the defaults to disk for editing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := readiness.LoadThresholds(cfg.GetThresholdsPath(), logger)
		out, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal thresholds: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

var thresholdsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write default thresholds to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.GetThresholdsPath()
		if _, err := os.Stat(path); err == nil && !thresholdsForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := readiness.SaveThresholds(readiness.DefaultThresholds(), path); err != nil {
			return fmt.Errorf("failed to write thresholds: %w", err)
		}
		color.Green("✓ Default thresholds written to %s", path)
		return nil
	},
}

func init() {
	thresholdsInitCmd.Flags().BoolVarP(&thresholdsForce, "force", "f", false, "overwrite an existing file")
	thresholdsCmd.AddCommand(thresholdsInitCmd)
	rootCmd.AddCommand(thresholdsCmd)
}
