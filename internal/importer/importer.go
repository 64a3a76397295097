// ABOUTME: Provider export ingestion for daily wellness and activity data.
// ABOUTME: Idempotent upserts by date / external ID; callers clear the verdict cache after.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/storage"
)

// ExportFile is the provider export format: one JSON document holding
// daily wellness records and activities, as produced by a Garmin Connect
// style data export.
type ExportFile struct {
	Dailies    []DailyRecord    `json:"dailies"`
	Activities []ActivityRecord `json:"activities"`
}

// DailyRecord is one day of wellness data from the provider.
type DailyRecord struct {
	Date              string   `json:"date"`
	HRVMillis         *float64 `json:"hrv_ms"`
	RestingHR         *float64 `json:"resting_hr_bpm"`
	SleepSeconds      *float64 `json:"sleep_seconds"`
	TrainingReadiness *float64 `json:"training_readiness_score"`
}

// ActivityRecord is one training session from the provider.
type ActivityRecord struct {
	ID                    string   `json:"id"`
	Date                  string   `json:"date"`
	Name                  string   `json:"name"`
	TrainingLoad          *float64 `json:"training_load"`
	AerobicTrainingEffect *float64 `json:"aerobic_training_effect"`
	DurationSeconds       float64  `json:"duration_seconds"`
	DistanceMeters        float64  `json:"distance_meters"`
}

// Summary holds counts of imported records.
type Summary struct {
	Samples    int
	Activities int
	Skipped    int
}

// Import reads a provider export and upserts its records. Records with
// unparseable dates or missing IDs are skipped with a logged warning
// rather than failing the whole import. The caller owns clearing the
// verdict cache afterwards.
func Import(repo storage.Repository, r io.Reader, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var file ExportFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}

	summary := &Summary{}

	for _, rec := range file.Dailies {
		date, err := parseDate(rec.Date)
		if err != nil {
			logger.Warn("skipping daily record with bad date",
				zap.String("date", rec.Date),
				zap.Error(err),
			)
			summary.Skipped++
			continue
		}

		s := models.NewDailySample(date)
		s.HRVMillis = rec.HRVMillis
		s.RestingHR = rec.RestingHR
		s.SleepSeconds = rec.SleepSeconds
		s.TrainingReadiness = rec.TrainingReadiness

		if err := repo.UpsertSample(s); err != nil {
			return nil, fmt.Errorf("upsert sample %s: %w", rec.Date, err)
		}
		summary.Samples++
	}

	for _, rec := range file.Activities {
		if rec.ID == "" {
			logger.Warn("skipping activity without ID", zap.String("name", rec.Name))
			summary.Skipped++
			continue
		}
		date, err := parseDate(rec.Date)
		if err != nil {
			logger.Warn("skipping activity with bad date",
				zap.String("id", rec.ID),
				zap.String("date", rec.Date),
				zap.Error(err),
			)
			summary.Skipped++
			continue
		}

		a := models.NewActivity(rec.ID, date).WithName(rec.Name)
		a.TrainingLoad = rec.TrainingLoad
		a.AerobicTrainingEffect = rec.AerobicTrainingEffect
		a.DurationSeconds = rec.DurationSeconds
		a.DistanceMeters = rec.DistanceMeters

		if err := repo.UpsertActivity(a); err != nil {
			return nil, fmt.Errorf("upsert activity %s: %w", rec.ID, err)
		}
		summary.Activities++
	}

	return summary, nil
}

// parseDate accepts YYYY-MM-DD or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := models.ParseDateKey(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return models.DateOf(t), nil
}
