// ABOUTME: Rolling-baseline calculations for HRV, resting HR, and sleep.
// ABOUTME: Pure functions over sample history; insufficient data yields nil fields.
package baseline

import (
	"time"

	"github.com/harperreed/readiness/internal/models"
)

// Default window sizes in days.
const (
	HRVWindowDays       = 30
	RestingHRWindowDays = 7
	SleepWindowDays     = 7
)

// Minimum in-window sample counts below which the baseline is nil.
const (
	MinHRVSamples = 7
	MinSamples    = 3
)

// HRV computes the HRV baseline for targetDate over [targetDate-windowDays,
// targetDate). The window excludes the target date itself: the overnight
// reading attached to the target date is the "current" value. Deviation is
// the percentage drop relative to baseline, so a lower-than-usual HRV is
// negative. Requires at least MinHRVSamples historical points.
func HRV(history []*models.DailySample, targetDate time.Time, windowDays int) models.Baseline {
	target := models.DateOf(targetDate)
	start := target.AddDate(0, 0, -windowDays)

	var window []float64
	var current *float64
	for _, s := range history {
		if s.HRVMillis == nil {
			continue
		}
		d := models.DateOf(s.Date)
		if d.Equal(target) {
			v := *s.HRVMillis
			current = &v
			continue
		}
		if !d.Before(start) && d.Before(target) {
			window = append(window, *s.HRVMillis)
		}
	}

	b := models.Baseline{Current: current}
	if len(window) < MinHRVSamples {
		return b
	}

	avg := mean(window)
	b.Baseline = &avg
	if current != nil && avg != 0 {
		dev := (*current - avg) / avg * 100
		b.Deviation = &dev
	}
	return b
}

// RestingHR computes the resting-HR baseline for targetDate over
// [targetDate-windowDays, targetDate], inclusive of the target date. The
// chronologically last sample is "current"; the mean of all preceding
// samples is the baseline. Deviation is absolute, in bpm. Requires at
// least MinSamples points for a baseline; current is reported regardless.
func RestingHR(history []*models.DailySample, targetDate time.Time, windowDays int) models.Baseline {
	values := inclusiveWindow(history, targetDate, windowDays, func(s *models.DailySample) *float64 {
		return s.RestingHR
	})
	return trailingBaseline(values, MinSamples)
}

// Sleep computes the sleep baseline for targetDate over
// [targetDate-windowDays, targetDate], in hours. Deviation is signed so
// that positive means a deficit relative to baseline. DebtHours is the
// cumulative shortfall over the whole window: baseline x n minus the sum
// of actual sleep.
func Sleep(history []*models.DailySample, targetDate time.Time, windowDays int) models.SleepBaseline {
	values := inclusiveWindow(history, targetDate, windowDays, func(s *models.DailySample) *float64 {
		return s.SleepHours()
	})

	sb := models.SleepBaseline{Baseline: trailingBaseline(values, MinSamples)}
	if sb.Baseline.Baseline == nil {
		return sb
	}

	// Flip the sign: sleeping less than baseline is a positive deficit.
	if sb.Baseline.Deviation != nil {
		dev := -*sb.Baseline.Deviation
		sb.Baseline.Deviation = &dev
	}

	var total float64
	for _, v := range values {
		total += v
	}
	debt := *sb.Baseline.Baseline*float64(len(values)) - total
	sb.DebtHours = &debt
	return sb
}

// inclusiveWindow collects non-nil metric values with dates in
// [targetDate-windowDays, targetDate], ordered ascending by date.
func inclusiveWindow(history []*models.DailySample, targetDate time.Time, windowDays int, value func(*models.DailySample) *float64) []float64 {
	target := models.DateOf(targetDate)
	start := target.AddDate(0, 0, -windowDays)

	var values []float64
	for _, s := range history {
		v := value(s)
		if v == nil {
			continue
		}
		d := models.DateOf(s.Date)
		if !d.Before(start) && !d.After(target) {
			values = append(values, *v)
		}
	}
	return values
}

// trailingBaseline treats the last value as current and the mean of all
// preceding values as the baseline. Below minSamples total points the
// baseline and deviation are nil but current is still reported.
func trailingBaseline(values []float64, minSamples int) models.Baseline {
	var b models.Baseline
	if len(values) == 0 {
		return b
	}

	current := values[len(values)-1]
	b.Current = &current
	if len(values) < minSamples {
		return b
	}

	avg := mean(values[:len(values)-1])
	b.Baseline = &avg
	dev := current - avg
	b.Deviation = &dev
	return b
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
