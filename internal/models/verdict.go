// ABOUTME: Readiness verdict payload assembled per (date, locale).
// ABOUTME: This is the cached output of a full readiness computation.
package models

import "time"

// ReadinessState summarizes the verdict for quick display.
type ReadinessState string

const (
	StateReady   ReadinessState = "ready"
	StateCaution ReadinessState = "caution"
	StateRest    ReadinessState = "rest"
)

// Verdict is the full readiness assessment for one date.
type Verdict struct {
	Date                  time.Time      `json:"date"`
	Locale                string         `json:"locale"`
	State                 ReadinessState `json:"state"`
	Baselines             BaselineBundle `json:"baselines"`
	Load                  LoadWindow     `json:"load"`
	ConsecutiveHardDays   int            `json:"consecutive_hard_days"`
	WeeklyLoadIncreasePct *float64       `json:"weekly_load_increase_pct"`
	Alerts                []*Alert       `json:"alerts"`
	GeneratedAt           time.Time      `json:"generated_at"`
}

// StateFromAlerts derives the overall readiness state from the alerts
// that fired: any critical means rest, any warning means caution.
func StateFromAlerts(alerts []*Alert) ReadinessState {
	state := StateReady
	for _, a := range alerts {
		switch a.Severity {
		case SeverityCritical:
			return StateRest
		case SeverityWarning:
			state = StateCaution
		}
	}
	return state
}
