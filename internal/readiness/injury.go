// ABOUTME: Injury risk classifier over ACWR and week-over-week load ramp.
// ABOUTME: Message context depends on whether the load pattern looks like a comeback.
package readiness

import (
	"fmt"

	"github.com/harperreed/readiness/internal/models"
)

// InjuryInput bundles the load signals the injury classifier reads.
type InjuryInput struct {
	ACWR                  *float64
	WeeklyLoadIncreasePct *float64
}

// EvaluateInjury scores the ACWR level and the weekly load ramp
// independently. Severity is critical if either reaches its critical
// threshold, else warning if either reaches warning. The message key picks
// a context: a ramp firing while ACWR is still below the comeback cutoff
// reads as a return-from-break spike; an elevated ACWR reads as an
// overtraining pattern; anything else is a generic load concern.
func EvaluateInjury(in InjuryInput, t InjuryThresholds) *Result {
	var indicators []Indicator
	var severity models.Severity

	if in.ACWR != nil {
		if sev := scoreTier(*in.ACWR, t.ACWR); sev != "" {
			severity = worst(severity, sev)
			indicators = append(indicators, Indicator{
				Signal:    "acwr",
				Value:     *in.ACWR,
				Threshold: tierCutoff(t.ACWR, sev),
				Severity:  sev,
			})
		}
	}

	if in.WeeklyLoadIncreasePct != nil {
		if sev := scoreTier(*in.WeeklyLoadIncreasePct, t.WeeklyIncreasePct); sev != "" {
			severity = worst(severity, sev)
			indicators = append(indicators, Indicator{
				Signal:    "weekly_load_increase_pct",
				Value:     *in.WeeklyLoadIncreasePct,
				Threshold: tierCutoff(t.WeeklyIncreasePct, sev),
				Severity:  sev,
			})
		}
	}

	if severity == "" {
		return nil
	}

	context := "load"
	switch {
	case in.ACWR != nil && *in.ACWR < t.ComebackACWR:
		context = "comeback"
	case in.ACWR != nil && *in.ACWR >= t.ACWR.Warning:
		context = "overtraining"
	}

	metrics := map[string]any{}
	if in.ACWR != nil {
		metrics["acwr"] = *in.ACWR
	}
	if in.WeeklyLoadIncreasePct != nil {
		metrics["weekly_load_increase_pct"] = *in.WeeklyLoadIncreasePct
	}

	return &Result{
		Severity:   severity,
		MessageKey: fmt.Sprintf("%s_%s", context, severity),
		Indicators: indicators,
		Metrics:    metrics,
	}
}
