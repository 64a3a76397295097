// ABOUTME: Repository interface for readiness data storage.
// ABOUTME: Defines the contract for samples, activities, and alert persistence.
package storage

import (
	"errors"
	"time"

	"github.com/harperreed/readiness/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Repository defines the storage interface for readiness data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Daily sample operations. Samples are keyed by calendar date and
	// upserted on re-sync.
	UpsertSample(s *models.DailySample) error
	GetSample(date time.Time) (*models.DailySample, error)
	ListSamples(from, to time.Time) ([]*models.DailySample, error)
	ListRecentSamples(limit int) ([]*models.DailySample, error)

	// Activity operations. Activities are keyed by provider-assigned
	// external ID and upserted idempotently.
	UpsertActivity(a *models.Activity) error
	ListActivities(from, to time.Time) ([]*models.Activity, error)

	// Alert operations. UpsertActiveAlert implements the optimistic
	// insert-then-update-on-conflict protocol; at most one active alert
	// exists per (trigger date, alert type).
	UpsertActiveAlert(a *models.Alert) error
	GetAlert(idOrPrefix string) (*models.Alert, error)
	ListAlerts(status *models.AlertStatus, limit int) ([]*models.Alert, error)
	SetAlertStatus(idOrPrefix string, status models.AlertStatus) error

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
