// ABOUTME: Tests for sample, activity, and alert persistence.
// ABOUTME: Covers upsert idempotence and the race-safe active-alert invariant.
package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/harperreed/readiness/internal/models"
)

var testDate = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

func TestUpsertSampleIdempotent(t *testing.T) {
	db := setupTestDB(t)

	first := models.NewDailySample(testDate).WithHRV(52).WithRestingHR(48)
	if err := db.UpsertSample(first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// Re-syncing the same date overwrites the fields but keeps one row.
	second := models.NewDailySample(testDate).WithHRV(55)
	if err := db.UpsertSample(second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err := db.GetSample(testDate)
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}
	if got.HRVMillis == nil || *got.HRVMillis != 55 {
		t.Errorf("HRVMillis = %v, want 55", got.HRVMillis)
	}
	if got.RestingHR != nil {
		t.Errorf("RestingHR = %v, want nil after overwrite", got.RestingHR)
	}
	// Original row survives under its first ID.
	if got.ID != first.ID {
		t.Errorf("ID = %s, want original %s", got.ID, first.ID)
	}

	samples, err := db.ListSamples(testDate.AddDate(0, 0, -1), testDate)
	if err != nil {
		t.Fatalf("ListSamples failed: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("len(samples) = %d, want 1", len(samples))
	}
}

func TestGetSampleNotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetSample(testDate); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListSamplesOrderedAscending(t *testing.T) {
	db := setupTestDB(t)

	for _, daysBack := range []int{2, 0, 5, 1} {
		s := models.NewDailySample(testDate.AddDate(0, 0, -daysBack)).WithHRV(50)
		if err := db.UpsertSample(s); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	samples, err := db.ListSamples(testDate.AddDate(0, 0, -7), testDate)
	if err != nil {
		t.Fatalf("ListSamples failed: %v", err)
	}
	if len(samples) != 4 {
		t.Fatalf("len(samples) = %d, want 4", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if !samples[i].Date.After(samples[i-1].Date) {
			t.Errorf("samples out of order at %d: %s then %s", i,
				models.DateKey(samples[i-1].Date), models.DateKey(samples[i].Date))
		}
	}
}

func TestListRecentSamplesNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	for daysBack := 0; daysBack < 5; daysBack++ {
		s := models.NewDailySample(testDate.AddDate(0, 0, -daysBack)).WithHRV(50)
		if err := db.UpsertSample(s); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	samples, err := db.ListRecentSamples(3)
	if err != nil {
		t.Fatalf("ListRecentSamples failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("len(samples) = %d, want 3", len(samples))
	}
	if !samples[0].Date.Equal(testDate) {
		t.Errorf("first sample = %s, want %s", models.DateKey(samples[0].Date), models.DateKey(testDate))
	}
}

func TestSampleNullFieldsRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	s := models.NewDailySample(testDate).WithSleepSeconds(7.5 * 3600)
	if err := db.UpsertSample(s); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := db.GetSample(testDate)
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}
	if got.HRVMillis != nil || got.RestingHR != nil || got.TrainingReadiness != nil {
		t.Error("expected absent metrics to stay nil")
	}
	if got.SleepSeconds == nil || *got.SleepSeconds != 7.5*3600 {
		t.Errorf("SleepSeconds = %v, want %f", got.SleepSeconds, 7.5*3600)
	}
}

func TestUpsertActivityIdempotent(t *testing.T) {
	db := setupTestDB(t)

	a := models.NewActivity("run-123", testDate).WithName("Tempo run").WithTrainingLoad(85)
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	updated := models.NewActivity("run-123", testDate).WithName("Tempo run").WithTrainingLoad(90)
	if err := db.UpsertActivity(updated); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	activities, err := db.ListActivities(testDate, testDate)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("len(activities) = %d, want 1", len(activities))
	}
	if activities[0].TrainingLoad == nil || *activities[0].TrainingLoad != 90 {
		t.Errorf("TrainingLoad = %v, want 90", activities[0].TrainingLoad)
	}
}

func TestMultipleActivitiesPerDay(t *testing.T) {
	db := setupTestDB(t)

	for _, id := range []string{"morning-run", "evening-swim"} {
		a := models.NewActivity(id, testDate).WithTrainingLoad(50)
		if err := db.UpsertActivity(a); err != nil {
			t.Fatalf("upsert %s failed: %v", id, err)
		}
	}

	activities, err := db.ListActivities(testDate, testDate)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(activities) != 2 {
		t.Errorf("len(activities) = %d, want 2", len(activities))
	}
}

func newTestAlert(severity models.Severity) *models.Alert {
	return models.NewAlert(models.AlertOvertraining, severity, testDate).
		WithMessage(string(severity), "test alert").
		WithMetrics(map[string]any{"hrv_deviation_pct": -18.5})
}

func TestUpsertActiveAlertInsert(t *testing.T) {
	db := setupTestDB(t)

	a := newTestAlert(models.SeverityWarning)
	if err := db.UpsertActiveAlert(a); err != nil {
		t.Fatalf("UpsertActiveAlert failed: %v", err)
	}

	got, err := db.GetAlert(a.ID.String())
	if err != nil {
		t.Fatalf("GetAlert failed: %v", err)
	}
	if got.Type != models.AlertOvertraining {
		t.Errorf("Type = %s, want overtraining", got.Type)
	}
	if got.Status != models.StatusActive {
		t.Errorf("Status = %s, want active", got.Status)
	}
	if got.Metrics["hrv_deviation_pct"] != -18.5 {
		t.Errorf("metrics = %v, want hrv_deviation_pct -18.5", got.Metrics)
	}
}

func TestUpsertActiveAlertDeduplicates(t *testing.T) {
	db := setupTestDB(t)

	first := newTestAlert(models.SeverityWarning)
	if err := db.UpsertActiveAlert(first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// A later run for the same (date, type) escalates in place.
	second := newTestAlert(models.SeverityCritical)
	if err := db.UpsertActiveAlert(second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	// The loser converged onto the surviving row's ID.
	if second.ID != first.ID {
		t.Errorf("second.ID = %s, want %s", second.ID, first.ID)
	}

	status := models.StatusActive
	alerts, err := db.ListAlerts(&status, 0)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}
	if alerts[0].Severity != models.SeverityCritical {
		t.Errorf("Severity = %s, want critical after refresh", alerts[0].Severity)
	}
}

func TestUpsertActiveAlertConcurrent(t *testing.T) {
	db := setupTestDB(t)

	// Many concurrent detection runs for the same (date, type) must
	// converge on exactly one active row.
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := db.UpsertActiveAlert(newTestAlert(models.SeverityWarning)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent upsert failed: %v", err)
	}

	status := models.StatusActive
	alerts, err := db.ListAlerts(&status, 0)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("len(active alerts) = %d, want exactly 1", len(alerts))
	}
}

func TestAcknowledgedAlertFreesTheSlot(t *testing.T) {
	db := setupTestDB(t)

	first := newTestAlert(models.SeverityWarning)
	if err := db.UpsertActiveAlert(first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := db.SetAlertStatus(first.ID.String(), models.StatusAcknowledged); err != nil {
		t.Fatalf("SetAlertStatus failed: %v", err)
	}

	// The partial index only covers active rows, so a fresh alert for the
	// same (date, type) inserts cleanly.
	second := newTestAlert(models.SeverityCritical)
	if err := db.UpsertActiveAlert(second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a new row, not an update of the acknowledged one")
	}

	alerts, err := db.ListAlerts(nil, 0)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Errorf("len(alerts) = %d, want 2", len(alerts))
	}
}

func TestGetAlertByPrefix(t *testing.T) {
	db := setupTestDB(t)

	a := newTestAlert(models.SeverityWarning)
	if err := db.UpsertActiveAlert(a); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := db.GetAlert(a.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetAlert by prefix failed: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("ID = %s, want %s", got.ID, a.ID)
	}

	if _, err := db.GetAlert("ffffffff"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListAlertsFilterAndOrder(t *testing.T) {
	db := setupTestDB(t)

	older := models.NewAlert(models.AlertIllness, models.SeverityWarning, testDate.AddDate(0, 0, -2)).
		WithMessage("warning", "older")
	newer := models.NewAlert(models.AlertInjury, models.SeverityCritical, testDate).
		WithMessage("critical", "newer")
	for _, a := range []*models.Alert{older, newer} {
		if err := db.UpsertActiveAlert(a); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}
	if err := db.SetAlertStatus(older.ID.String(), models.StatusResolved); err != nil {
		t.Fatalf("SetAlertStatus failed: %v", err)
	}

	status := models.StatusResolved
	resolved, err := db.ListAlerts(&status, 0)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(resolved) != 1 || resolved[0].ID != older.ID {
		t.Errorf("resolved filter returned %d row(s)", len(resolved))
	}

	all, err := db.ListAlerts(nil, 0)
	if err != nil {
		t.Fatalf("ListAlerts(nil) failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	if all[0].ID != newer.ID {
		t.Error("expected newest trigger date first")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := setupTestDB(t)

	sample := models.NewDailySample(testDate).WithHRV(52).WithRestingHR(48)
	if err := src.UpsertSample(sample); err != nil {
		t.Fatalf("upsert sample failed: %v", err)
	}
	activity := models.NewActivity("run-1", testDate).WithTrainingLoad(85)
	if err := src.UpsertActivity(activity); err != nil {
		t.Fatalf("upsert activity failed: %v", err)
	}
	alert := newTestAlert(models.SeverityWarning)
	if err := src.UpsertActiveAlert(alert); err != nil {
		t.Fatalf("upsert alert failed: %v", err)
	}

	data, err := src.GetAllData()
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}
	if len(data.Samples) != 1 || len(data.Activities) != 1 || len(data.Alerts) != 1 {
		t.Fatalf("export counts = %d/%d/%d, want 1/1/1",
			len(data.Samples), len(data.Activities), len(data.Alerts))
	}

	dst := setupTestDB(t)
	if err := dst.ImportData(data); err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}

	got, err := dst.GetSample(testDate)
	if err != nil {
		t.Fatalf("GetSample after import failed: %v", err)
	}
	if got.HRVMillis == nil || *got.HRVMillis != 52 {
		t.Errorf("HRVMillis = %v, want 52", got.HRVMillis)
	}

	status := models.StatusActive
	alerts, err := dst.ListAlerts(&status, 0)
	if err != nil {
		t.Fatalf("ListAlerts after import failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("len(alerts) = %d, want 1", len(alerts))
	}

	// Importing the same payload again must not duplicate anything.
	if err := dst.ImportData(data); err != nil {
		t.Fatalf("second ImportData failed: %v", err)
	}
	samples, err := dst.ListSamples(testDate.AddDate(0, 0, -1), testDate)
	if err != nil {
		t.Fatalf("ListSamples failed: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("len(samples) = %d after re-import, want 1", len(samples))
	}
}

func TestMarshalExportFormats(t *testing.T) {
	db := setupTestDB(t)
	if err := db.UpsertSample(models.NewDailySample(testDate).WithHRV(52)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	data, err := db.GetAllData()
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}

	for _, format := range []string{"json", "yaml"} {
		raw, err := MarshalExport(data, format)
		if err != nil {
			t.Fatalf("MarshalExport(%s) failed: %v", format, err)
		}
		if len(raw) == 0 {
			t.Errorf("MarshalExport(%s) returned empty output", format)
		}
	}

	if _, err := MarshalExport(data, "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
