// ABOUTME: Alert model for physiological risk alerts.
// ABOUTME: Defines alert types, severities, status lifecycle, and metric sanitization.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertType identifies the risk category an alert belongs to.
type AlertType string

const (
	AlertOvertraining AlertType = "overtraining"
	AlertIllness      AlertType = "illness"
	AlertInjury       AlertType = "injury"
)

// AllAlertTypes returns all valid alert types.
var AllAlertTypes = []AlertType{AlertOvertraining, AlertIllness, AlertInjury}

// Severity is the tier an alert fired at.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// AlertStatus tracks the alert lifecycle. At most one active alert may
// exist per (trigger date, alert type); acknowledged and resolved rows
// are history.
type AlertStatus string

const (
	StatusActive       AlertStatus = "active"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusResolved     AlertStatus = "resolved"
)

// Alert represents a persisted risk alert.
type Alert struct {
	ID          uuid.UUID
	Type        AlertType
	Severity    Severity
	TriggerDate time.Time
	Message     string
	MessageKey  string
	Metrics     map[string]any
	Status      AlertStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAlert creates an active alert for the given type and trigger date.
func NewAlert(alertType AlertType, severity Severity, triggerDate time.Time) *Alert {
	now := time.Now().UTC()
	return &Alert{
		ID:          uuid.New(),
		Type:        alertType,
		Severity:    severity,
		TriggerDate: DateOf(triggerDate),
		Metrics:     map[string]any{},
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithMessage sets the rendered message and its template key.
func (a *Alert) WithMessage(key, message string) *Alert {
	a.MessageKey = key
	a.Message = message
	return a
}

// WithMetrics sets the trigger metrics after sanitizing them.
func (a *Alert) WithMetrics(metrics map[string]any) *Alert {
	a.Metrics = SanitizeMetrics(metrics)
	return a
}

// IsValidAlertType checks if a string is a valid alert type.
func IsValidAlertType(s string) bool {
	for _, at := range AllAlertTypes {
		if string(at) == s {
			return true
		}
	}
	return false
}

// SanitizeMetrics reduces a trigger-metrics map to primitive-only values:
// strings, booleans, numbers, nil, and flat lists thereof. Anything else
// is silently dropped so that storage always succeeds.
func SanitizeMetrics(metrics map[string]any) map[string]any {
	out := make(map[string]any, len(metrics))
	for k, v := range metrics {
		if sv, ok := sanitizeValue(v); ok {
			out[k] = sv
		}
	}
	return out
}

func sanitizeValue(v any) (any, bool) {
	switch val := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val, true
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			// Nested lists are not primitives; drop them.
			if _, isList := item.([]any); isList {
				continue
			}
			if sv, ok := sanitizeValue(item); ok {
				out = append(out, sv)
			}
		}
		return out, true
	default:
		return nil, false
	}
}
