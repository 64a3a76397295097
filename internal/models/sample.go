// ABOUTME: DailySample model for per-day physiological metrics.
// ABOUTME: One row per calendar date, upserted on re-sync.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DailySample holds one calendar day's synced physiological metrics.
// Every metric is optional; a sample exists as soon as any field is synced
// for that date. Dates are normalized to midnight UTC.
type DailySample struct {
	ID                uuid.UUID
	Date              time.Time
	HRVMillis         *float64
	RestingHR         *float64
	SleepSeconds      *float64
	TrainingReadiness *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewDailySample creates a sample for the given date with generated UUID.
func NewDailySample(date time.Time) *DailySample {
	now := time.Now().UTC()
	return &DailySample{
		ID:        uuid.New(),
		Date:      DateOf(date),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithHRV sets the overnight HRV reading in milliseconds.
func (s *DailySample) WithHRV(ms float64) *DailySample {
	s.HRVMillis = &ms
	return s
}

// WithRestingHR sets the resting heart rate in bpm.
func (s *DailySample) WithRestingHR(bpm float64) *DailySample {
	s.RestingHR = &bpm
	return s
}

// WithSleepSeconds sets the total sleep duration in seconds.
func (s *DailySample) WithSleepSeconds(seconds float64) *DailySample {
	s.SleepSeconds = &seconds
	return s
}

// WithTrainingReadiness sets the device-reported readiness score (0-100).
func (s *DailySample) WithTrainingReadiness(score float64) *DailySample {
	s.TrainingReadiness = &score
	return s
}

// SleepHours returns the sleep duration in hours, or nil if not synced.
func (s *DailySample) SleepHours() *float64 {
	if s.SleepSeconds == nil {
		return nil
	}
	h := *s.SleepSeconds / 3600.0
	return &h
}

// DateOf truncates a timestamp to its calendar day at midnight UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date as YYYY-MM-DD for storage and cache keys.
func DateKey(t time.Time) string {
	return DateOf(t).Format("2006-01-02")
}

// ParseDateKey parses a YYYY-MM-DD date string.
func ParseDateKey(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
