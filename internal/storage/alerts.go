// ABOUTME: Alert persistence with race-safe deduplication per (date, type).
// ABOUTME: Optimistic insert first; unique violation converges to a transactional update.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/readiness/internal/models"
)

// upsertRetries bounds the insert/update loop. Each pass can only lose a
// race once to an insert and once to a status change.
const upsertRetries = 3

// UpsertActiveAlert persists an active alert, deduplicating per
// (trigger date, alert type). The insert is attempted first since the
// common case has no conflict; a unique violation on the partial index
// means another run already created the active row, so the loser re-reads
// it inside a transaction and refreshes severity, message, and metrics.
// The database constraint, not application logic, is what makes two
// concurrent detection runs converge to a single row.
func (d *DB) UpsertActiveAlert(a *models.Alert) error {
	metricsJSON, err := marshalMetrics(a.Metrics)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < upsertRetries; attempt++ {
		insertErr := d.insertAlert(a, metricsJSON)
		if insertErr == nil {
			return nil
		}
		if !isUniqueViolation(insertErr) {
			return fmt.Errorf("insert alert: %w", insertErr)
		}

		updated, updateErr := d.updateConflictingAlert(a, metricsJSON)
		if updateErr != nil {
			return updateErr
		}
		if updated {
			return nil
		}
		// The conflicting row changed status between our insert and the
		// update; retry the insert.
	}
	return fmt.Errorf("upsert alert %s/%s: retries exhausted", models.DateKey(a.TriggerDate), a.Type)
}

func (d *DB) insertAlert(a *models.Alert, metricsJSON string) error {
	query := `
		INSERT INTO alerts (id, alert_type, severity, trigger_date, message, message_key, metrics, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	_, err := d.db.Exec(query,
		a.ID.String(),
		string(a.Type),
		string(a.Severity),
		models.DateKey(a.TriggerDate),
		a.Message,
		a.MessageKey,
		metricsJSON,
		string(models.StatusActive),
		a.CreatedAt.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	return err
}

// updateConflictingAlert re-reads the existing active row for the alert's
// key inside a transaction and applies the new field values to it
// (last-committed-wins). Returns false when no active row exists anymore,
// in which case the caller should retry the insert.
func (d *DB) updateConflictingAlert(a *models.Alert, metricsJSON string) (bool, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin alert update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	err = tx.QueryRow(
		`SELECT id FROM alerts WHERE trigger_date = ? AND alert_type = ? AND status = ?`,
		models.DateKey(a.TriggerDate), string(a.Type), string(models.StatusActive),
	).Scan(&existingID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read conflicting alert: %w", err)
	}

	now := time.Now().UTC()
	_, err = tx.Exec(
		`UPDATE alerts SET severity = ?, message = ?, message_key = ?, metrics = ?, updated_at = ? WHERE id = ?`,
		string(a.Severity), a.Message, a.MessageKey, metricsJSON, now.Format(time.RFC3339), existingID,
	)
	if err != nil {
		return false, fmt.Errorf("update conflicting alert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit alert update: %w", err)
	}

	// Converge the in-memory alert onto the surviving row.
	if id, parseErr := uuid.Parse(existingID); parseErr == nil {
		a.ID = id
	}
	a.UpdatedAt = now
	return true, nil
}

// GetAlert retrieves an alert by ID or ID prefix.
func (d *DB) GetAlert(idOrPrefix string) (*models.Alert, error) {
	query := `
		SELECT id, alert_type, severity, trigger_date, message, message_key, metrics, status, created_at, updated_at
		FROM alerts
		WHERE id = ? OR id LIKE ?
		LIMIT 2
	`
	rows, err := d.db.Query(query, idOrPrefix, idOrPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	defer rows.Close()

	var matches []*models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous alert ID prefix: %s", idOrPrefix)
	}
}

// ListAlerts retrieves alerts, optionally filtered by status, newest
// trigger date first.
func (d *DB) ListAlerts(status *models.AlertStatus, limit int) ([]*models.Alert, error) {
	query := `
		SELECT id, alert_type, severity, trigger_date, message, message_key, metrics, status, created_at, updated_at
		FROM alerts
	`
	var args []interface{}
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY trigger_date DESC, alert_type ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// SetAlertStatus transitions an alert to acknowledged or resolved.
func (d *DB) SetAlertStatus(idOrPrefix string, status models.AlertStatus) error {
	a, err := d.GetAlert(idOrPrefix)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = d.db.Exec(
		`UPDATE alerts SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now.Format(time.RFC3339), a.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("set alert status: %w", err)
	}
	return nil
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert
	var id, alertType, severity, triggerDate, metricsJSON, status, createdAt, updatedAt string

	err := row.Scan(&id, &alertType, &severity, &triggerDate, &a.Message, &a.MessageKey, &metricsJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan alert: %w", err)
	}

	a.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse alert id: %w", err)
	}
	a.Type = models.AlertType(alertType)
	a.Severity = models.Severity(severity)
	a.Status = models.AlertStatus(status)
	a.TriggerDate, err = models.ParseDateKey(triggerDate)
	if err != nil {
		return nil, fmt.Errorf("parse trigger date: %w", err)
	}
	if err := json.Unmarshal([]byte(metricsJSON), &a.Metrics); err != nil {
		// Metrics are advisory; a corrupt payload should not hide the alert.
		a.Metrics = map[string]any{}
	}
	a.CreatedAt = parseTimestamp(createdAt)
	a.UpdatedAt = parseTimestamp(updatedAt)
	return &a, nil
}

func marshalMetrics(metrics map[string]any) (string, error) {
	if metrics == nil {
		return "{}", nil
	}
	data, err := json.Marshal(models.SanitizeMetrics(metrics))
	if err != nil {
		return "", fmt.Errorf("marshal alert metrics: %w", err)
	}
	return string(data), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
