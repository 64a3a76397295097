// ABOUTME: Tiered threshold configuration for risk classification.
// ABOUTME: External JSON merges over hardcoded defaults; malformed config never crashes.
package readiness

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Tier holds a warning and critical cutoff for one signal.
type Tier struct {
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
}

// IntTier is a Tier for count-valued signals.
type IntTier struct {
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}

// OvertrainingThresholds configures the three overtraining signals. Each
// is scored independently against its own tier.
type OvertrainingThresholds struct {
	HRVDropPct          Tier    `json:"hrv_drop_pct"`
	ConsecutiveHardDays IntTier `json:"consecutive_hard_days"`
	SleepDebtHours      Tier    `json:"sleep_debt_hours"`
	HardEffortThreshold float64 `json:"hard_effort_threshold"`
}

// IllnessTier is one illness severity tier: both the HRV drop and the RHR
// rise must hold simultaneously for at least MinConsecutiveDays.
type IllnessTier struct {
	HRVDropPct         float64 `json:"hrv_drop_pct"`
	RHRRiseBPM         float64 `json:"rhr_rise_bpm"`
	MinConsecutiveDays int     `json:"min_consecutive_days"`
}

// IllnessThresholds configures both illness tiers.
type IllnessThresholds struct {
	Warning  IllnessTier `json:"warning"`
	Critical IllnessTier `json:"critical"`
}

// InjuryThresholds configures ACWR and weekly-ramp scoring. ComebackACWR
// is the level below which a firing alert is phrased as a return-from-break
// spike rather than sustained overload.
type InjuryThresholds struct {
	ACWR              Tier    `json:"acwr"`
	WeeklyIncreasePct Tier    `json:"weekly_increase_pct"`
	ComebackACWR      float64 `json:"comeback_acwr"`
}

// Thresholds is the full threshold document consumed by the classifiers.
type Thresholds struct {
	Overtraining OvertrainingThresholds `json:"overtraining"`
	Illness      IllnessThresholds      `json:"illness"`
	Injury       InjuryThresholds       `json:"injury"`
}

// DefaultThresholds returns the hardcoded safe defaults used whenever
// external configuration is absent or malformed.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		Overtraining: OvertrainingThresholds{
			HRVDropPct:          Tier{Warning: 15, Critical: 25},
			ConsecutiveHardDays: IntTier{Warning: 3, Critical: 5},
			SleepDebtHours:      Tier{Warning: 3, Critical: 6},
			HardEffortThreshold: 3.0,
		},
		Illness: IllnessThresholds{
			Warning:  IllnessTier{HRVDropPct: 20, RHRRiseBPM: 5, MinConsecutiveDays: 2},
			Critical: IllnessTier{HRVDropPct: 30, RHRRiseBPM: 10, MinConsecutiveDays: 1},
		},
		Injury: InjuryThresholds{
			ACWR:              Tier{Warning: 1.3, Critical: 1.5},
			WeeklyIncreasePct: Tier{Warning: 30, Critical: 60},
			ComebackACWR:      0.8,
		},
	}
}

// LoadThresholds reads a threshold document from path and merges it over
// the defaults. A missing file is normal and yields the defaults silently;
// a malformed file yields the defaults with a logged warning. This
// function never fails the detection pass.
func LoadThresholds(path string, logger *zap.Logger) *Thresholds {
	t := DefaultThresholds()
	if path == "" {
		return t
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read thresholds, using defaults",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return t
	}

	// Unmarshalling into the pre-populated struct merges field-by-field:
	// absent fields keep their default values.
	if err := json.Unmarshal(data, t); err != nil {
		logger.Warn("malformed thresholds, using defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return DefaultThresholds()
	}
	return t
}

// SaveThresholds writes a threshold document to path, mainly used to
// scaffold a starting config for editing.
func SaveThresholds(t *Thresholds, path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal thresholds: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
