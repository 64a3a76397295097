// ABOUTME: Message templates for alerts, keyed by type, context, and locale.
// ABOUTME: Missing locales or keys fall back to the built-in English set.
package readiness

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultLocale is used when the caller does not specify one.
const DefaultLocale = "en"

// MessageSet holds the templates for one locale. Overtraining and illness
// templates are keyed by severity; injury templates by context_severity
// (comeback, overtraining, load).
type MessageSet struct {
	Overtraining map[string]string `json:"overtraining"`
	Illness      map[string]string `json:"illness"`
	Injury       map[string]string `json:"injury"`
}

// Messages maps locale to its message set.
type Messages map[string]MessageSet

// DefaultMessages returns the built-in English templates.
func DefaultMessages() Messages {
	return Messages{
		DefaultLocale: {
			Overtraining: map[string]string{
				"warning":  "Signs of accumulating fatigue: {indicators}. Consider an easy day.",
				"critical": "Strong overtraining signals: {indicators}. Take a rest day.",
			},
			Illness: map[string]string{
				"warning":  "HRV down {hrv_drop_pct}% with resting HR up {rhr_rise_bpm} bpm for {days} day(s). Your body may be fighting something.",
				"critical": "HRV down {hrv_drop_pct}% with resting HR up {rhr_rise_bpm} bpm. High illness risk - prioritize recovery.",
			},
			Injury: map[string]string{
				"comeback_warning":      "Load is ramping quickly after a quiet spell (weekly load up {weekly_load_increase_pct}%). Build back gradually.",
				"comeback_critical":     "Very sharp ramp after a quiet spell (weekly load up {weekly_load_increase_pct}%). High injury risk - ease off.",
				"overtraining_warning":  "Workload ratio at {acwr} is above the safe range. Injury risk is elevated.",
				"overtraining_critical": "Workload ratio at {acwr} is well above the safe range. Back off before something breaks.",
				"load_warning":          "Training load is climbing faster than your base supports. Watch for niggles.",
				"load_critical":         "Training load is far ahead of your base. High injury risk.",
			},
		},
	}
}

// LoadMessages reads a message template document and merges it over the
// defaults. Like thresholds, message config is best-effort: any failure
// degrades to the built-in templates with a logged warning.
func LoadMessages(path string, logger *zap.Logger) Messages {
	m := DefaultMessages()
	if path == "" {
		return m
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read messages, using defaults",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return m
	}

	var loaded Messages
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warn("malformed messages, using defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return m
	}

	for locale, set := range loaded {
		base := m[locale]
		base.Overtraining = mergeTemplates(base.Overtraining, set.Overtraining)
		base.Illness = mergeTemplates(base.Illness, set.Illness)
		base.Injury = mergeTemplates(base.Injury, set.Injury)
		m[locale] = base
	}
	return m
}

func mergeTemplates(base, override map[string]string) map[string]string {
	if base == nil {
		base = map[string]string{}
	}
	for k, v := range override {
		base[k] = v
	}
	return base
}

// Render resolves a template for (locale, alert type, key) and substitutes
// {name} placeholders from vars. Unknown locales fall back to English;
// unknown keys produce a plain key-based message rather than failing.
func (m Messages) Render(locale, alertType, key string, vars map[string]string) string {
	set, ok := m[locale]
	if !ok {
		set = m[DefaultLocale]
	}

	var templates map[string]string
	switch alertType {
	case "overtraining":
		templates = set.Overtraining
	case "illness":
		templates = set.Illness
	case "injury":
		templates = set.Injury
	}

	tmpl, ok := templates[key]
	if !ok {
		// Also try the default locale before giving up on the key.
		if fallback, found := fallbackTemplate(m, alertType, key); found {
			tmpl = fallback
		} else {
			return fmt.Sprintf("%s alert (%s)", alertType, key)
		}
	}

	out := tmpl
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}

func fallbackTemplate(m Messages, alertType, key string) (string, bool) {
	set, ok := m[DefaultLocale]
	if !ok {
		return "", false
	}
	var templates map[string]string
	switch alertType {
	case "overtraining":
		templates = set.Overtraining
	case "illness":
		templates = set.Illness
	case "injury":
		templates = set.Injury
	}
	tmpl, ok := templates[key]
	return tmpl, ok
}

// FormatIndicators joins indicator descriptions into a stable, readable
// list for the {indicators} placeholder.
func FormatIndicators(indicators []Indicator) string {
	parts := make([]string, 0, len(indicators))
	for _, ind := range indicators {
		parts = append(parts, ind.Describe())
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
