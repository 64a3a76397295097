// ABOUTME: Activity CRUD operations for SQLite storage.
// ABOUTME: Idempotent upsert keyed by the provider's external ID.
package storage

import (
	"fmt"
	"time"

	"github.com/harperreed/readiness/internal/models"
)

// UpsertActivity inserts or replaces an activity by its external ID, so
// importing the same provider export twice converges.
func (d *DB) UpsertActivity(a *models.Activity) error {
	query := `
		INSERT INTO activities (external_id, date, name, training_load, aerobic_training_effect, duration_seconds, distance_meters, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			training_load = excluded.training_load,
			aerobic_training_effect = excluded.aerobic_training_effect,
			duration_seconds = excluded.duration_seconds,
			distance_meters = excluded.distance_meters
	`
	_, err := d.db.Exec(query,
		a.ExternalID,
		models.DateKey(a.Date),
		a.Name,
		a.TrainingLoad,
		a.AerobicTrainingEffect,
		a.DurationSeconds,
		a.DistanceMeters,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert activity: %w", err)
	}
	return nil
}

// ListActivities retrieves activities with dates in [from, to], sorted
// ascending by date.
func (d *DB) ListActivities(from, to time.Time) ([]*models.Activity, error) {
	query := `
		SELECT external_id, date, name, training_load, aerobic_training_effect, duration_seconds, distance_meters, created_at
		FROM activities
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, external_id ASC
	`
	rows, err := d.db.Query(query, models.DateKey(from), models.DateKey(to))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		var a models.Activity
		var date, createdAt string

		err := rows.Scan(&a.ExternalID, &date, &a.Name, &a.TrainingLoad, &a.AerobicTrainingEffect, &a.DurationSeconds, &a.DistanceMeters, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}

		a.Date, err = models.ParseDateKey(date)
		if err != nil {
			return nil, fmt.Errorf("parse activity date: %w", err)
		}
		a.CreatedAt = parseTimestamp(createdAt)
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}
