// ABOUTME: Shared classifier result types for risk evaluation.
// ABOUTME: Each classifier is a pure function from inputs to a tiered result.
package readiness

import (
	"fmt"

	"github.com/harperreed/readiness/internal/models"
)

// Indicator records one signal that met a threshold, for inclusion in the
// alert message and trigger metrics.
type Indicator struct {
	Signal    string          `json:"signal"`
	Value     float64         `json:"value"`
	Threshold float64         `json:"threshold"`
	Severity  models.Severity `json:"severity"`
}

// Describe renders the indicator for message templates.
func (i Indicator) Describe() string {
	switch i.Signal {
	case "hrv_drop_pct":
		return fmt.Sprintf("HRV down %.0f%%", i.Value)
	case "consecutive_hard_days":
		return fmt.Sprintf("%.0f consecutive hard days", i.Value)
	case "sleep_debt_hours":
		return fmt.Sprintf("%.1fh sleep debt", i.Value)
	case "rhr_rise_bpm":
		return fmt.Sprintf("resting HR up %.0f bpm", i.Value)
	case "acwr":
		return fmt.Sprintf("workload ratio at %.2f", i.Value)
	case "weekly_load_increase_pct":
		return fmt.Sprintf("weekly load up %.0f%%", i.Value)
	default:
		return fmt.Sprintf("%s at %.2f", i.Signal, i.Value)
	}
}

// Result is a classifier outcome. A nil *Result means no alert fires.
type Result struct {
	Severity   models.Severity
	MessageKey string
	Indicators []Indicator
	Metrics    map[string]any
}

// worst returns the higher of two severities, treating critical > warning.
func worst(a, b models.Severity) models.Severity {
	if a == models.SeverityCritical || b == models.SeverityCritical {
		return models.SeverityCritical
	}
	if a == models.SeverityWarning || b == models.SeverityWarning {
		return models.SeverityWarning
	}
	return ""
}

// scoreTier classifies a value against a tier, returning the severity it
// reaches ("" when below warning).
func scoreTier(value float64, tier Tier) models.Severity {
	switch {
	case value >= tier.Critical:
		return models.SeverityCritical
	case value >= tier.Warning:
		return models.SeverityWarning
	default:
		return ""
	}
}
