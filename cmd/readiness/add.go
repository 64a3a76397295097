// ABOUTME: CLI commands for manual data entry.
// ABOUTME: Supports adding daily samples and training activities.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
)

var (
	addDate  string
	addHRV   float64
	addRHR   float64
	addSleep float64
	addTR    float64

	addActName     string
	addActLoad     float64
	addActTE       float64
	addActDuration float64
	addActDistance float64
)

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Add data manually",
	Long: `Add a daily sample or a training activity manually.

Most users import provider exports instead ('readiness import'), but
manual entry is handy for backfilling gaps or testing thresholds.

EXAMPLES:

  readiness add sample --hrv 52 --rhr 48 --sleep 7.5
  readiness add sample --date 2026-08-15 --hrv 44
  readiness add activity run-123 --load 85 --name "Tempo run"
  readiness add activity ride-9 --te 3.4 --duration 5400`,
}

var addSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Add a daily sample",
	Long: `Add or update the daily sample for a date (default: today).

A day has at most one sample; adding again overwrites the provided
fields for that date. Omitted flags are stored as missing, not zero.

FLAGS:

  --hrv     overnight HRV in milliseconds
  --rhr     resting heart rate in bpm
  --sleep   sleep duration in hours
  --tr      provider training readiness score (0-100)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveAddDate()
		if err != nil {
			return err
		}

		sample := models.NewDailySample(date)
		if cmd.Flags().Changed("hrv") {
			sample.WithHRV(addHRV)
		}
		if cmd.Flags().Changed("rhr") {
			sample.WithRestingHR(addRHR)
		}
		if cmd.Flags().Changed("sleep") {
			sample.WithSleepSeconds(addSleep * 3600)
		}
		if cmd.Flags().Changed("tr") {
			sample.WithTrainingReadiness(addTR)
		}

		if err := repo.UpsertSample(sample); err != nil {
			return fmt.Errorf("failed to save sample: %w", err)
		}
		svc.ClearCache()

		color.Green("✓ Saved sample for %s", models.DateKey(date))
		return nil
	},
}

var addActivityCmd = &cobra.Command{
	Use:   "activity <external-id>",
	Short: "Add a training activity",
	Long: `Add or update a training activity.

The external ID is the provider's activity identifier; re-adding the
same ID overwrites the earlier record. A day may hold any number of
activities.

Training load feeds the ACWR calculation. When --load is omitted the
load falls back to aerobic training effect x 10.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveAddDate()
		if err != nil {
			return err
		}

		activity := models.NewActivity(args[0], date)
		if addActName != "" {
			activity.WithName(addActName)
		}
		if cmd.Flags().Changed("load") {
			activity.WithTrainingLoad(addActLoad)
		}
		if cmd.Flags().Changed("te") {
			activity.WithAerobicTrainingEffect(addActTE)
		}
		activity.DurationSeconds = addActDuration
		activity.DistanceMeters = addActDistance

		if err := repo.UpsertActivity(activity); err != nil {
			return fmt.Errorf("failed to save activity: %w", err)
		}
		svc.ClearCache()

		color.Green("✓ Saved activity %s for %s", args[0], models.DateKey(date))
		return nil
	},
}

func resolveAddDate() (time.Time, error) {
	if addDate == "" {
		return time.Now(), nil
	}
	t, err := models.ParseDateKey(addDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", addDate)
	}
	return t, nil
}

func init() {
	addCmd.PersistentFlags().StringVarP(&addDate, "date", "d", "", "date (YYYY-MM-DD, default: today)")

	addSampleCmd.Flags().Float64Var(&addHRV, "hrv", 0, "overnight HRV in ms")
	addSampleCmd.Flags().Float64Var(&addRHR, "rhr", 0, "resting heart rate in bpm")
	addSampleCmd.Flags().Float64Var(&addSleep, "sleep", 0, "sleep duration in hours")
	addSampleCmd.Flags().Float64Var(&addTR, "tr", 0, "training readiness score")

	addActivityCmd.Flags().StringVar(&addActName, "name", "", "activity name")
	addActivityCmd.Flags().Float64Var(&addActLoad, "load", 0, "training load")
	addActivityCmd.Flags().Float64Var(&addActTE, "te", 0, "aerobic training effect (0-5)")
	addActivityCmd.Flags().Float64Var(&addActDuration, "duration", 0, "duration in seconds")
	addActivityCmd.Flags().Float64Var(&addActDistance, "distance", 0, "distance in meters")

	addCmd.AddCommand(addSampleCmd)
	addCmd.AddCommand(addActivityCmd)
	rootCmd.AddCommand(addCmd)
}
