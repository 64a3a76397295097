// ABOUTME: Tests for the illness classifier.
// ABOUTME: Covers the coincidence requirement and per-tier consecutive-day checks.
package readiness

import (
	"testing"
	"time"

	"github.com/harperreed/readiness/internal/models"
)

var illnessDate = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

// steadyRange builds stable readings (HRV 50 ms, resting HR 48 bpm) for
// the days [target-fromBack, target-toBack].
func steadyRange(target time.Time, fromBack, toBack int) []*models.DailySample {
	var samples []*models.DailySample
	for i := fromBack; i >= toBack; i-- {
		s := models.NewDailySample(target.AddDate(0, 0, -i)).WithHRV(50).WithRestingHR(48)
		samples = append(samples, s)
	}
	return samples
}

func sickDay(target time.Time, daysBack int, hrv, rhr float64) *models.DailySample {
	return models.NewDailySample(target.AddDate(0, 0, -daysBack)).WithHRV(hrv).WithRestingHR(rhr)
}

func TestIllnessCriticalSingleDay(t *testing.T) {
	// One day at -35% HRV and +12 bpm meets the critical tier on its own.
	history := steadyRange(illnessDate, 30, 1)
	history = append(history, sickDay(illnessDate, 0, 32.5, 60))

	r := EvaluateIllness(history, illnessDate, DefaultThresholds().Illness)
	if r == nil {
		t.Fatal("expected result, got nil")
	}
	if r.Severity != models.SeverityCritical {
		t.Errorf("Severity = %s, want critical", r.Severity)
	}
	if r.MessageKey != "critical" {
		t.Errorf("MessageKey = %s, want critical", r.MessageKey)
	}
	if got := r.Metrics["consecutive_days"]; got != 1 {
		t.Errorf("consecutive_days = %v, want 1", got)
	}
	if len(r.Indicators) != 2 {
		t.Fatalf("len(Indicators) = %d, want 2", len(r.Indicators))
	}
}

func TestIllnessWarningNeedsTwoDays(t *testing.T) {
	// Two consecutive days of moderate deviation reach warning; the same
	// pattern for one day does not.
	oneDay := steadyRange(illnessDate, 30, 1)
	oneDay = append(oneDay, sickDay(illnessDate, 0, 37.5, 56))

	if r := EvaluateIllness(oneDay, illnessDate, DefaultThresholds().Illness); r != nil {
		t.Fatalf("one moderate day: expected nil, got %s", r.Severity)
	}

	twoDays := steadyRange(illnessDate, 30, 2)
	twoDays = append(twoDays, sickDay(illnessDate, 1, 37.5, 56))
	twoDays = append(twoDays, sickDay(illnessDate, 0, 37.5, 56))

	r := EvaluateIllness(twoDays, illnessDate, DefaultThresholds().Illness)
	if r == nil {
		t.Fatal("two moderate days: expected result, got nil")
	}
	if r.Severity != models.SeverityWarning {
		t.Errorf("Severity = %s, want warning", r.Severity)
	}
	if got := r.Metrics["consecutive_days"]; got != 2 {
		t.Errorf("consecutive_days = %v, want 2", got)
	}
}

func TestIllnessRequiresBothSignals(t *testing.T) {
	th := DefaultThresholds().Illness

	// HRV crashed but resting HR is normal.
	hrvOnly := steadyRange(illnessDate, 30, 1)
	hrvOnly = append(hrvOnly, sickDay(illnessDate, 0, 30, 48))
	if r := EvaluateIllness(hrvOnly, illnessDate, th); r != nil {
		t.Errorf("HRV drop alone: expected nil, got %s", r.Severity)
	}

	// Resting HR elevated but HRV is fine.
	rhrOnly := steadyRange(illnessDate, 30, 1)
	rhrOnly = append(rhrOnly, sickDay(illnessDate, 0, 50, 62))
	if r := EvaluateIllness(rhrOnly, illnessDate, th); r != nil {
		t.Errorf("RHR rise alone: expected nil, got %s", r.Severity)
	}

	// Both deviations present but pointing the wrong way.
	inverted := steadyRange(illnessDate, 30, 1)
	inverted = append(inverted, sickDay(illnessDate, 0, 65, 40))
	if r := EvaluateIllness(inverted, illnessDate, th); r != nil {
		t.Errorf("inverted deviations: expected nil, got %s", r.Severity)
	}
}

func TestIllnessInsufficientHistory(t *testing.T) {
	// Too little history for either baseline: no verdict, no crash.
	history := []*models.DailySample{sickDay(illnessDate, 0, 30, 62)}

	if r := EvaluateIllness(history, illnessDate, DefaultThresholds().Illness); r != nil {
		t.Errorf("expected nil for insufficient history, got %s", r.Severity)
	}
}

func TestIllnessGapBreaksStreak(t *testing.T) {
	// A recovered day between two sick days resets the consecutive count,
	// so the warning tier's two-day requirement is not met.
	history := steadyRange(illnessDate, 30, 3)
	history = append(history, sickDay(illnessDate, 2, 37.5, 56))
	history = append(history, sickDay(illnessDate, 1, 50, 48))
	history = append(history, sickDay(illnessDate, 0, 37.5, 56))

	if r := EvaluateIllness(history, illnessDate, DefaultThresholds().Illness); r != nil {
		t.Errorf("expected nil after streak break, got %s", r.Severity)
	}
}
