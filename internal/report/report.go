// ABOUTME: Markdown readiness report rendering and file output.
// ABOUTME: One dated report per verdict under reports/YYYY/MM/.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/readiness/internal/models"
)

// Render produces a markdown readiness report for one verdict.
func Render(v *models.Verdict) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Readiness Report - %s\n\n", models.DateKey(v.Date))
	fmt.Fprintf(&b, "**State:** %s\n\n", v.State)

	b.WriteString("## Baselines\n\n")
	b.WriteString("| Metric | Baseline | Current | Deviation |\n")
	b.WriteString("|--------|----------|---------|-----------|\n")
	fmt.Fprintf(&b, "| HRV (ms) | %s | %s | %s |\n",
		num(v.Baselines.HRV.Baseline), num(v.Baselines.HRV.Current), pct(v.Baselines.HRV.Deviation))
	fmt.Fprintf(&b, "| Resting HR (bpm) | %s | %s | %s |\n",
		num(v.Baselines.RestingHR.Baseline), num(v.Baselines.RestingHR.Current), num(v.Baselines.RestingHR.Deviation))
	fmt.Fprintf(&b, "| Sleep (h) | %s | %s | %s |\n",
		num(v.Baselines.Sleep.Baseline.Baseline), num(v.Baselines.Sleep.Baseline.Current), num(v.Baselines.Sleep.Baseline.Deviation))
	if v.Baselines.Sleep.DebtHours != nil {
		fmt.Fprintf(&b, "\nSleep debt over the window: %.1f h\n", *v.Baselines.Sleep.DebtHours)
	}

	b.WriteString("\n## Training Load\n\n")
	fmt.Fprintf(&b, "- Acute (7d): %.0f\n", v.Load.Acute)
	fmt.Fprintf(&b, "- Chronic weekly (28d/4): %.0f\n", v.Load.ChronicWeekly)
	fmt.Fprintf(&b, "- ACWR: %s\n", num(v.Load.ACWR))
	fmt.Fprintf(&b, "- Consecutive hard days: %d\n", v.ConsecutiveHardDays)
	fmt.Fprintf(&b, "- Weekly load change: %s\n", pct(v.WeeklyLoadIncreasePct))

	b.WriteString("\n## Alerts\n\n")
	if len(v.Alerts) == 0 {
		b.WriteString("No alerts.\n")
	} else {
		for _, a := range v.Alerts {
			fmt.Fprintf(&b, "- **%s / %s**: %s\n", a.Type, a.Severity, a.Message)
		}
	}

	fmt.Fprintf(&b, "\n---\nGenerated %s\n", v.GeneratedAt.Format("2006-01-02 15:04 MST"))
	return b.String()
}

// Write renders the verdict and writes it under dataDir/reports/YYYY/MM/.
// Returns the written file path.
func Write(dataDir string, v *models.Verdict) (string, error) {
	dir := filepath.Join(dataDir, "reports", v.Date.Format("2006"), v.Date.Format("01"))
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-readiness.md", models.DateKey(v.Date)))
	if err := os.WriteFile(path, []byte(Render(v)), 0600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func num(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func pct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}
