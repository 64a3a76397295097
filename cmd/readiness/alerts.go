// ABOUTME: CLI commands for risk alerts.
// ABOUTME: Supports listing, on-demand detection, and acknowledgement.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
)

var (
	alertsStatus string
	alertsLimit  int
)

var alertsCmd = &cobra.Command{
	Use:     "alerts",
	Aliases: []string{"al"},
	Short:   "Show risk alerts",
	Long: `Show risk alerts from the local store.

  Each line shows: ID  DATE  TYPE  SEVERITY  STATUS  MESSAGE

  The ID is an 8-character prefix you can use with 'alerts ack'.

ALERT TYPES:

  overtraining   HRV suppression, hard-day streaks, sleep debt
  illness        sustained HRV drop combined with resting HR rise
  injury         ACWR or week-over-week load ramp out of range

COMMANDS:

  alerts          List alerts (active by default)
  alerts detect   Run detection for a date and persist findings
  alerts ack      Acknowledge an alert by ID prefix

EXAMPLES:

  readiness alerts                      # Active alerts
  readiness alerts --status resolved    # Resolved alerts
  readiness alerts detect 2026-08-15    # Detect for a specific date
  readiness alerts ack 3f2a91b0         # Acknowledge by ID prefix`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var status *models.AlertStatus
		if alertsStatus != "" {
			st := models.AlertStatus(alertsStatus)
			if st != models.StatusActive && st != models.StatusAcknowledged && st != models.StatusResolved {
				return fmt.Errorf("unknown alert status: %s", alertsStatus)
			}
			status = &st
		} else {
			st := models.StatusActive
			status = &st
		}

		alerts, err := repo.ListAlerts(status, alertsLimit)
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}

		if len(alerts) == 0 {
			fmt.Println("No alerts found.")
			return nil
		}

		for _, a := range alerts {
			printAlertLine(a)
		}
		return nil
	},
}

var alertsDetectCmd = &cobra.Command{
	Use:   "detect [date]",
	Short: "Run risk detection",
	Long: `Run risk detection for a date (default: today) and persist findings.

Detection is idempotent per (date, type): re-running refreshes the
existing active alert instead of creating a duplicate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(args)
		if err != nil {
			return err
		}

		alerts, err := svc.DetectAlerts(date)
		if err != nil {
			return fmt.Errorf("failed to detect alerts: %w", err)
		}

		if len(alerts) == 0 {
			color.Green("✓ No risks detected for %s", date.Format("2006-01-02"))
			return nil
		}

		fmt.Printf("Detected %d alert(s) for %s:\n\n", len(alerts), date.Format("2006-01-02"))
		for _, a := range alerts {
			printAlertLine(a)
		}
		return nil
	},
}

var alertsAckCmd = &cobra.Command{
	Use:     "ack <id>",
	Aliases: []string{"acknowledge"},
	Short:   "Acknowledge an alert",
	Long: `Acknowledge an alert by ID or ID prefix.

Acknowledged alerts stop counting toward the readiness state, and the
same (date, type) slot becomes free for a fresh active alert.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.SetAlertStatus(args[0], models.StatusAcknowledged); err != nil {
			return fmt.Errorf("failed to acknowledge alert: %w", err)
		}
		svc.ClearCache()
		color.Green("✓ Alert acknowledged")
		return nil
	},
}

func printAlertLine(a *models.Alert) {
	faint := color.New(color.Faint)

	sev := color.YellowString(padRight(string(a.Severity), 8))
	if a.Severity == models.SeverityCritical {
		sev = color.RedString(padRight(string(a.Severity), 8))
	}

	fmt.Printf("%s %s %s %s %s %s\n",
		faint.Sprint(a.ID.String()[:8]),
		faint.Sprint(a.TriggerDate.Format("2006-01-02")),
		padRight(string(a.Type), 12),
		sev,
		faint.Sprint(string(a.Status)),
		a.Message)
}

func init() {
	alertsCmd.Flags().StringVarP(&alertsStatus, "status", "s", "", "filter by status (active, acknowledged, resolved)")
	alertsCmd.Flags().IntVarP(&alertsLimit, "limit", "n", 20, "max number of results")
	alertsCmd.AddCommand(alertsDetectCmd)
	alertsCmd.AddCommand(alertsAckCmd)
	rootCmd.AddCommand(alertsCmd)
}
