// ABOUTME: Daily sample CRUD operations for SQLite storage.
// ABOUTME: Upsert-by-date semantics so provider re-syncs converge.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/readiness/internal/models"
)

// UpsertSample inserts or replaces the sample for its date. A re-synced
// date keeps its original row ID and created_at.
func (d *DB) UpsertSample(s *models.DailySample) error {
	query := `
		INSERT INTO daily_samples (id, date, hrv_ms, resting_hr, sleep_seconds, training_readiness, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			hrv_ms = excluded.hrv_ms,
			resting_hr = excluded.resting_hr,
			sleep_seconds = excluded.sleep_seconds,
			training_readiness = excluded.training_readiness,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC()
	_, err := d.db.Exec(query,
		s.ID.String(),
		models.DateKey(s.Date),
		s.HRVMillis,
		s.RestingHR,
		s.SleepSeconds,
		s.TrainingReadiness,
		s.CreatedAt.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert sample: %w", err)
	}
	return nil
}

// GetSample retrieves the sample for a calendar date.
func (d *DB) GetSample(date time.Time) (*models.DailySample, error) {
	query := `
		SELECT id, date, hrv_ms, resting_hr, sleep_seconds, training_readiness, created_at, updated_at
		FROM daily_samples
		WHERE date = ?
	`
	return d.scanSample(d.db.QueryRow(query, models.DateKey(date)))
}

// ListSamples retrieves samples with dates in [from, to], sorted ascending
// by date as the baseline calculator expects.
func (d *DB) ListSamples(from, to time.Time) ([]*models.DailySample, error) {
	query := `
		SELECT id, date, hrv_ms, resting_hr, sleep_seconds, training_readiness, created_at, updated_at
		FROM daily_samples
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`
	rows, err := d.db.Query(query, models.DateKey(from), models.DateKey(to))
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	return d.collectSamples(rows)
}

// ListRecentSamples retrieves the most recent samples, newest first.
func (d *DB) ListRecentSamples(limit int) ([]*models.DailySample, error) {
	query := `
		SELECT id, date, hrv_ms, resting_hr, sleep_seconds, training_readiness, created_at, updated_at
		FROM daily_samples
		ORDER BY date DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recent samples: %w", err)
	}
	defer rows.Close()

	return d.collectSamples(rows)
}

func (d *DB) collectSamples(rows *sql.Rows) ([]*models.DailySample, error) {
	var samples []*models.DailySample
	for rows.Next() {
		s, err := scanSampleRow(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (d *DB) scanSample(row *sql.Row) (*models.DailySample, error) {
	s, err := scanSampleRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func scanSampleRow(row rowScanner) (*models.DailySample, error) {
	var s models.DailySample
	var id, date, createdAt, updatedAt string

	err := row.Scan(&id, &date, &s.HRVMillis, &s.RestingHR, &s.SleepSeconds, &s.TrainingReadiness, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	s.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse sample id: %w", err)
	}
	s.Date, err = models.ParseDateKey(date)
	if err != nil {
		return nil, fmt.Errorf("parse sample date: %w", err)
	}
	s.CreatedAt = parseTimestamp(createdAt)
	s.UpdatedAt = parseTimestamp(updatedAt)
	return &s, nil
}

// parseTimestamp handles both RFC3339 strings and SQLite's default
// CURRENT_TIMESTAMP format.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02 15:04:05", s)
	return t
}
