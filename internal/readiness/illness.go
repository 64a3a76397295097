// ABOUTME: Illness risk classifier requiring coincident HRV drop and RHR rise.
// ABOUTME: Verifies per-tier consecutive-day requirements by re-running baselines backward.
package readiness

import (
	"time"

	"github.com/harperreed/readiness/internal/baseline"
	"github.com/harperreed/readiness/internal/models"
)

// maxIllnessLookbackDays bounds the backward walk when verifying how many
// consecutive days both illness signals held.
const maxIllnessLookbackDays = 7

// EvaluateIllness checks for the illness pattern: a suppressed HRV together
// with an elevated resting HR on the target date. Severity depends on how
// many consecutive days both tier thresholds held, verified by recomputing
// the baselines for each prior day. Critical is checked before warning
// (larger deviations, fewer required days).
func EvaluateIllness(history []*models.DailySample, targetDate time.Time, t IllnessThresholds) *Result {
	hrvDev, rhrDev := illnessDeviations(history, targetDate)
	if hrvDev == nil || rhrDev == nil {
		return nil
	}
	// Both signals must point the same way at once: HRV suppressed and
	// resting HR elevated.
	if *hrvDev >= 0 || *rhrDev <= 0 {
		return nil
	}

	for _, tier := range []struct {
		severity models.Severity
		cfg      IllnessTier
	}{
		{models.SeverityCritical, t.Critical},
		{models.SeverityWarning, t.Warning},
	} {
		days := consecutiveIllnessDays(history, targetDate, tier.cfg)
		if days >= tier.cfg.MinConsecutiveDays {
			drop := -*hrvDev
			rise := *rhrDev
			return &Result{
				Severity:   tier.severity,
				MessageKey: string(tier.severity),
				Indicators: []Indicator{
					{Signal: "hrv_drop_pct", Value: drop, Threshold: tier.cfg.HRVDropPct, Severity: tier.severity},
					{Signal: "rhr_rise_bpm", Value: rise, Threshold: tier.cfg.RHRRiseBPM, Severity: tier.severity},
				},
				Metrics: map[string]any{
					"hrv_drop_pct":     drop,
					"rhr_rise_bpm":     rise,
					"consecutive_days": days,
				},
			}
		}
	}
	return nil
}

// consecutiveIllnessDays walks backward from targetDate, recomputing both
// baselines per day, and counts how many consecutive days met both tier
// thresholds at once. The walk stops at the first day that fails.
func consecutiveIllnessDays(history []*models.DailySample, targetDate time.Time, tier IllnessTier) int {
	days := 0
	for back := 0; back < maxIllnessLookbackDays; back++ {
		day := models.DateOf(targetDate).AddDate(0, 0, -back)
		hrvDev, rhrDev := illnessDeviations(history, day)
		if hrvDev == nil || rhrDev == nil {
			break
		}
		if -*hrvDev < tier.HRVDropPct || *rhrDev < tier.RHRRiseBPM {
			break
		}
		days++
	}
	return days
}

func illnessDeviations(history []*models.DailySample, day time.Time) (hrvDev, rhrDev *float64) {
	hrv := baseline.HRV(history, day, baseline.HRVWindowDays)
	rhr := baseline.RestingHR(history, day, baseline.RestingHRWindowDays)
	return hrv.Deviation, rhr.Deviation
}
