// ABOUTME: Export and import functionality for readiness data.
// ABOUTME: Supports JSON and YAML export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/readiness/internal/models"
)

// ExportData represents the full export format for readiness data.
type ExportData struct {
	Version    string                 `json:"version" yaml:"version"`
	ExportedAt time.Time              `json:"exported_at" yaml:"exported_at"`
	Tool       string                 `json:"tool" yaml:"tool"`
	Samples    []*models.DailySample  `json:"samples" yaml:"samples"`
	Activities []*models.Activity     `json:"activities" yaml:"activities"`
	Alerts     []*models.Alert        `json:"alerts" yaml:"alerts"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	samples, err := d.ListRecentSamples(0)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}

	// The full activity history: an open-ended range.
	activities, err := d.ListActivities(time.Time{}, models.DateOf(time.Now().AddDate(10, 0, 0)))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	alerts, err := d.ListAlerts(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Tool:       "readiness",
		Samples:    samples,
		Activities: activities,
		Alerts:     alerts,
	}, nil
}

// ImportData imports data from an export file. Samples and activities
// upsert by their natural keys, so importing twice converges.
func (d *DB) ImportData(data *ExportData) error {
	for _, s := range data.Samples {
		if err := d.UpsertSample(s); err != nil {
			return fmt.Errorf("import sample %s: %w", models.DateKey(s.Date), err)
		}
	}

	for _, a := range data.Activities {
		if err := d.UpsertActivity(a); err != nil {
			return fmt.Errorf("import activity %s: %w", a.ExternalID, err)
		}
	}

	for _, a := range data.Alerts {
		if a.Status == models.StatusActive {
			if err := d.UpsertActiveAlert(a); err != nil {
				return fmt.Errorf("import alert %s: %w", a.ID, err)
			}
			continue
		}
		// Historical alerts bypass the active-dedup path.
		metricsJSON, err := marshalMetrics(a.Metrics)
		if err != nil {
			return err
		}
		if err := d.insertHistoricalAlert(a, metricsJSON); err != nil {
			return fmt.Errorf("import alert %s: %w", a.ID, err)
		}
	}
	return nil
}

func (d *DB) insertHistoricalAlert(a *models.Alert, metricsJSON string) error {
	query := `
		INSERT OR REPLACE INTO alerts (id, alert_type, severity, trigger_date, message, message_key, metrics, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		a.ID.String(),
		string(a.Type),
		string(a.Severity),
		models.DateKey(a.TriggerDate),
		a.Message,
		a.MessageKey,
		metricsJSON,
		string(a.Status),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

// MarshalExport serializes export data in the requested format: "json"
// (default) or "yaml".
func MarshalExport(data *ExportData, format string) ([]byte, error) {
	switch format {
	case "", "json":
		return json.MarshalIndent(data, "", "  ")
	case "yaml":
		return yaml.Marshal(data)
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
}

// UnmarshalExport deserializes export data, accepting both JSON and YAML.
func UnmarshalExport(raw []byte) (*ExportData, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err == nil {
		return &data, nil
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse export data: %w", err)
	}
	return &data, nil
}
