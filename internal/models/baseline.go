// ABOUTME: Derived baseline and load-window types for readiness evaluation.
// ABOUTME: Ephemeral values computed from sample/activity history, never stored.
package models

// Baseline compares a current reading against its rolling baseline.
// Baseline and Deviation are nil when the window holds too few samples;
// Current may still be reported on its own.
type Baseline struct {
	Baseline  *float64 `json:"baseline"`
	Current   *float64 `json:"current"`
	Deviation *float64 `json:"deviation"`
}

// SleepBaseline extends Baseline with the cumulative sleep debt over the
// window, in hours, signed so that positive means deficit.
type SleepBaseline struct {
	Baseline
	DebtHours *float64 `json:"debt_hours"`
}

// BaselineBundle groups the per-metric baselines for one target date.
type BaselineBundle struct {
	HRV       Baseline      `json:"hrv"`
	RestingHR Baseline      `json:"resting_hr"`
	Sleep     SleepBaseline `json:"sleep"`
}

// LoadWindow holds the acute and chronic training-load sums feeding ACWR.
// ACWR is nil when the chronic-weekly load is zero.
type LoadWindow struct {
	Acute         float64  `json:"acute"`
	ChronicWeekly float64  `json:"chronic_weekly"`
	ACWR          *float64 `json:"acwr"`
}
