// ABOUTME: CLI command showing rolling baselines for a date.
// ABOUTME: Prints HRV, resting HR, and sleep baselines with deviations.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var baselinesJSON bool

var baselinesCmd = &cobra.Command{
	Use:     "baselines [date]",
	Aliases: []string{"bl"},
	Short:   "Show rolling baselines",
	Long: `Show rolling baselines and deviations for a date (default: today).

  HRV          30-day rolling mean, deviation in percent
  resting HR   7-day trailing mean, deviation in bpm
  sleep        7-day trailing mean, deviation in hours (positive = deficit)

A baseline needs enough history before it appears: 7 HRV samples in the
window, 3 points for resting HR and sleep.

EXAMPLES:

  readiness baselines               # Today's baselines
  readiness baselines 2026-08-15    # Baselines for a specific date`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(args)
		if err != nil {
			return err
		}

		bundle, err := svc.CalculateBaselines(date)
		if err != nil {
			return fmt.Errorf("failed to calculate baselines: %w", err)
		}

		if baselinesJSON {
			out, err := json.MarshalIndent(bundle, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal baselines: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("Baselines for %s\n\n", date.Format("2006-01-02"))
		printBaselines(bundle)
		return nil
	},
}

func init() {
	baselinesCmd.Flags().BoolVar(&baselinesJSON, "json", false, "output JSON")
	rootCmd.AddCommand(baselinesCmd)
}
