// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for daily samples, activities, and alerts.
package storage

// initSchema creates or updates the database schema.
//
// The partial unique index on alerts enforces the "at most one active
// alert per (trigger_date, alert_type)" invariant at the database level,
// so concurrent detection runs cannot both insert.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_samples (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		hrv_ms REAL,
		resting_hr REAL,
		sleep_seconds REAL,
		training_readiness REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS activities (
		external_id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		training_load REAL,
		aerobic_training_effect REAL,
		duration_seconds REAL NOT NULL DEFAULT 0,
		distance_meters REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		alert_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		trigger_date TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		message_key TEXT NOT NULL DEFAULT '',
		metrics TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'active',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_samples_date ON daily_samples(date DESC);
	CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date DESC);
	CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
	CREATE INDEX IF NOT EXISTS idx_alerts_trigger ON alerts(trigger_date DESC);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_active_key
		ON alerts(trigger_date, alert_type) WHERE status = 'active';
	`

	_, err := d.db.Exec(schema)
	return err
}
