// ABOUTME: Training-load aggregation: ACWR, hard-day streaks, weekly deltas.
// ABOUTME: Pure reductions over an activity list for one target date.
package load

import (
	"math"
	"time"

	"github.com/harperreed/readiness/internal/models"
)

// Window sizes in days for the acute:chronic workload ratio.
const (
	AcuteWindowDays   = 7
	ChronicWindowDays = 28
)

// DefaultHardEffortThreshold is the aerobic training effect at or above
// which a day counts as hard.
const DefaultHardEffortThreshold = 3.0

// Window computes the acute and chronic load sums and the ACWR for
// targetDate. Acute is the load sum over the trailing 7 days (exclusive
// boundary at day start); chronic-weekly is the 28-day sum divided by 4.
// ACWR is rounded to 2 decimals and nil when chronic-weekly is zero.
func Window(activities []*models.Activity, targetDate time.Time) models.LoadWindow {
	target := models.DateOf(targetDate)
	acuteStart := target.AddDate(0, 0, -AcuteWindowDays)
	chronicStart := target.AddDate(0, 0, -ChronicWindowDays)

	w := models.LoadWindow{}
	for _, a := range activities {
		d := models.DateOf(a.Date)
		if d.After(target) {
			continue
		}
		l := a.Load()
		if d.After(acuteStart) {
			w.Acute += l
		}
		if !d.Before(chronicStart) {
			w.ChronicWeekly += l
		}
	}
	w.ChronicWeekly /= 4

	if w.ChronicWeekly != 0 {
		ratio := round2(w.Acute / w.ChronicWeekly)
		w.ACWR = &ratio
	}
	return w
}

// ACWR is a convenience wrapper around Window returning just the ratio.
func ACWR(activities []*models.Activity, targetDate time.Time) *float64 {
	return Window(activities, targetDate).ACWR
}

// ConsecutiveHardDays counts the gap-free streak of hard days ending at
// targetDate, walking backward one day at a time. A day is hard when any
// of its activities has an aerobic training effect at or above threshold.
// The streak is 0 when the target date itself is not hard.
func ConsecutiveHardDays(activities []*models.Activity, targetDate time.Time, threshold float64) int {
	hard := make(map[time.Time]bool)
	for _, a := range activities {
		if a.AerobicTrainingEffect != nil && *a.AerobicTrainingEffect >= threshold {
			hard[models.DateOf(a.Date)] = true
		}
	}

	streak := 0
	for day := models.DateOf(targetDate); hard[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// WeeklyLoadIncreasePct compares this week's load ([targetDate-6,
// targetDate]) against the prior week ([targetDate-13, targetDate-7]) as a
// percentage change. Returns nil when the prior week's load is zero, since
// no meaningful ratio exists.
func WeeklyLoadIncreasePct(activities []*models.Activity, targetDate time.Time) *float64 {
	target := models.DateOf(targetDate)
	weekStart := target.AddDate(0, 0, -6)
	priorStart := target.AddDate(0, 0, -13)
	priorEnd := target.AddDate(0, 0, -7)

	var current, prior float64
	for _, a := range activities {
		d := models.DateOf(a.Date)
		switch {
		case !d.Before(weekStart) && !d.After(target):
			current += a.Load()
		case !d.Before(priorStart) && !d.After(priorEnd):
			prior += a.Load()
		}
	}

	if prior == 0 {
		return nil
	}
	pct := round2((current - prior) / prior * 100)
	return &pct
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
