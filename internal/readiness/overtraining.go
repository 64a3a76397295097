// ABOUTME: Overtraining risk classifier over HRV, hard-day streak, and sleep debt.
// ABOUTME: Signals score independently; any critical signal makes the alert critical.
package readiness

import "github.com/harperreed/readiness/internal/models"

// OvertrainingInput bundles the signals the overtraining classifier reads.
// Nil pointers mean the signal could not be evaluated and is skipped.
type OvertrainingInput struct {
	HRVDeviationPct     *float64
	ConsecutiveHardDays int
	SleepDebtHours      *float64
}

// EvaluateOvertraining scores the three overtraining signals against their
// tiers. The overall severity is critical if any signal reaches critical,
// else warning if any reaches warning, else no alert. Every qualifying
// signal is listed as an indicator, not just the deciding one.
func EvaluateOvertraining(in OvertrainingInput, t OvertrainingThresholds) *Result {
	var indicators []Indicator
	var severity models.Severity

	if in.HRVDeviationPct != nil && *in.HRVDeviationPct < 0 {
		drop := -*in.HRVDeviationPct
		if sev := scoreTier(drop, t.HRVDropPct); sev != "" {
			severity = worst(severity, sev)
			indicators = append(indicators, Indicator{
				Signal:    "hrv_drop_pct",
				Value:     drop,
				Threshold: tierCutoff(t.HRVDropPct, sev),
				Severity:  sev,
			})
		}
	}

	days := float64(in.ConsecutiveHardDays)
	dayTier := Tier{Warning: float64(t.ConsecutiveHardDays.Warning), Critical: float64(t.ConsecutiveHardDays.Critical)}
	if sev := scoreTier(days, dayTier); sev != "" {
		severity = worst(severity, sev)
		indicators = append(indicators, Indicator{
			Signal:    "consecutive_hard_days",
			Value:     days,
			Threshold: tierCutoff(dayTier, sev),
			Severity:  sev,
		})
	}

	if in.SleepDebtHours != nil {
		if sev := scoreTier(*in.SleepDebtHours, t.SleepDebtHours); sev != "" {
			severity = worst(severity, sev)
			indicators = append(indicators, Indicator{
				Signal:    "sleep_debt_hours",
				Value:     *in.SleepDebtHours,
				Threshold: tierCutoff(t.SleepDebtHours, sev),
				Severity:  sev,
			})
		}
	}

	if severity == "" {
		return nil
	}

	metrics := map[string]any{
		"consecutive_hard_days": in.ConsecutiveHardDays,
	}
	if in.HRVDeviationPct != nil {
		metrics["hrv_deviation_pct"] = *in.HRVDeviationPct
	}
	if in.SleepDebtHours != nil {
		metrics["sleep_debt_hours"] = *in.SleepDebtHours
	}

	return &Result{
		Severity:   severity,
		MessageKey: string(severity),
		Indicators: indicators,
		Metrics:    metrics,
	}
}

func tierCutoff(t Tier, sev models.Severity) float64 {
	if sev == models.SeverityCritical {
		return t.Critical
	}
	return t.Warning
}
