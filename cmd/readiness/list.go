// ABOUTME: CLI commands for listing stored samples and activities.
// ABOUTME: Also hosts the shared column formatting helpers.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
)

var (
	samplesLimit   int
	activitiesDays int
)

var samplesCmd = &cobra.Command{
	Use:     "samples",
	Aliases: []string{"sm"},
	Short:   "List daily samples",
	Long: `List recent daily samples, newest first.

  Each line shows: DATE  HRV  RHR  SLEEP  TR

EXAMPLES:

  readiness samples          # Show last 14 samples
  readiness samples -n 30    # Show last 30 samples`,
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := repo.ListRecentSamples(samplesLimit)
		if err != nil {
			return fmt.Errorf("failed to list samples: %w", err)
		}

		if len(samples) == 0 {
			fmt.Println("No samples found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range samples {
			fmt.Printf("%s  hrv %s  rhr %s  sleep %s  tr %s\n",
				faint.Sprint(models.DateKey(s.Date)),
				cell(s.HRVMillis, "%.0f ms"),
				cell(s.RestingHR, "%.0f bpm"),
				cell(s.SleepHours(), "%.1f h"),
				cell(s.TrainingReadiness, "%.0f"))
		}
		return nil
	},
}

var activitiesCmd = &cobra.Command{
	Use:     "activities",
	Aliases: []string{"ac"},
	Short:   "List training activities",
	Long: `List training activities in a recent window, oldest first.

  Each line shows: DATE  NAME  LOAD  DURATION

EXAMPLES:

  readiness activities              # Last 28 days
  readiness activities --days 7     # Last 7 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to := models.DateOf(time.Now())
		from := to.AddDate(0, 0, -activitiesDays)

		activities, err := repo.ListActivities(from, to)
		if err != nil {
			return fmt.Errorf("failed to list activities: %w", err)
		}

		if len(activities) == 0 {
			fmt.Println("No activities found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, a := range activities {
			name := a.Name
			if name == "" {
				name = a.ExternalID
			}
			dur := ""
			if a.DurationSeconds > 0 {
				dur = faint.Sprintf("  %s", (time.Duration(a.DurationSeconds) * time.Second).String())
			}
			fmt.Printf("%s %s load %.0f%s\n",
				faint.Sprint(models.DateKey(a.Date)),
				padRight(truncate(name, 28), 30),
				a.Load(),
				dur)
		}
		return nil
	},
}

func cell(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	samplesCmd.Flags().IntVarP(&samplesLimit, "limit", "n", 14, "max number of results")
	activitiesCmd.Flags().IntVar(&activitiesDays, "days", 28, "window size in days")
	rootCmd.AddCommand(samplesCmd)
	rootCmd.AddCommand(activitiesCmd)
}
