// ABOUTME: CLI command showing the readiness verdict for a date.
// ABOUTME: Prints state, baselines, load, and any active alerts.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
)

var (
	statusLocale string
	statusJSON   bool
)

var statusCmd = &cobra.Command{
	Use:     "status [date]",
	Aliases: []string{"st", "today"},
	Short:   "Show the readiness verdict",
	Long: `Show the readiness verdict for a date (default: today).

The verdict combines baseline deviations, training load, and any risk
alerts into a single state:

  ready     no active alerts
  caution   warning-level alerts only
  rest      at least one critical alert

EXAMPLES:

  readiness status                # Today's verdict
  readiness status 2026-08-15     # Verdict for a specific date
  readiness status --json         # Machine-readable output`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(args)
		if err != nil {
			return err
		}

		locale := statusLocale
		if locale == "" {
			locale = cfg.GetLocale()
		}

		verdict, err := svc.Readiness(date, locale)
		if err != nil {
			return fmt.Errorf("failed to evaluate readiness: %w", err)
		}

		if statusJSON {
			out, err := json.MarshalIndent(verdict, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal verdict: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		printVerdict(verdict)
		return nil
	},
}

func printVerdict(v *models.Verdict) {
	faint := color.New(color.Faint)

	fmt.Printf("Readiness for %s\n\n", v.Date.Format("2006-01-02"))

	switch v.State {
	case models.StateReady:
		color.Green("  ● READY")
	case models.StateCaution:
		color.Yellow("  ● CAUTION")
	case models.StateRest:
		color.Red("  ● REST")
	}
	fmt.Println()

	printBaselines(&v.Baselines)

	fmt.Println("Load:")
	fmt.Printf("  acute (7d):    %.0f\n", v.Load.Acute)
	fmt.Printf("  chronic (wk):  %.0f\n", v.Load.ChronicWeekly)
	fmt.Printf("  ACWR:          %s\n", floatOrDash(v.Load.ACWR))
	fmt.Printf("  hard days:     %d\n", v.ConsecutiveHardDays)
	if v.WeeklyLoadIncreasePct != nil {
		fmt.Printf("  weekly ramp:   %+.1f%%\n", *v.WeeklyLoadIncreasePct)
	}
	fmt.Println()

	if len(v.Alerts) == 0 {
		faint.Println("No active alerts.")
		return
	}

	fmt.Println("Alerts:")
	for _, a := range v.Alerts {
		printAlertLine(a)
	}
}

func printBaselines(b *models.BaselineBundle) {
	fmt.Println("Baselines:")
	printBaselineLine("HRV", &b.HRV, "ms", true)
	printBaselineLine("resting HR", &b.RestingHR, "bpm", false)
	printBaselineLine("sleep", &b.Sleep.Baseline, "h", false)
	if b.Sleep.DebtHours != nil {
		fmt.Printf("  sleep debt:    %.1f h\n", *b.Sleep.DebtHours)
	}
	fmt.Println()
}

func printBaselineLine(name string, b *models.Baseline, unit string, pct bool) {
	if b == nil || b.Baseline == nil {
		fmt.Printf("  %-13s insufficient data\n", name+":")
		return
	}
	devStr := ""
	if b.Deviation != nil {
		if pct {
			devStr = fmt.Sprintf("  (%+.1f%%)", *b.Deviation)
		} else {
			devStr = fmt.Sprintf("  (%+.1f %s)", *b.Deviation, unit)
		}
	}
	cur := "-"
	if b.Current != nil {
		cur = fmt.Sprintf("%.1f", *b.Current)
	}
	fmt.Printf("  %-13s %s %s vs %.1f %s baseline%s\n", name+":", cur, unit, *b.Baseline, unit, devStr)
}

func floatOrDash(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *f)
}

func init() {
	statusCmd.Flags().StringVarP(&statusLocale, "locale", "l", "", "message locale (default: config)")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output JSON")
	rootCmd.AddCommand(statusCmd)
}
