// ABOUTME: Integration tests for readiness CLI.
// ABOUTME: Tests full workflow from CLI commands.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(projectRoot, "readiness")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/readiness")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(binary)

	// Use temp database and config
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	run := func(args ...string) (string, error) {
		fullArgs := append([]string{"--db", dbPath}, args...)
		cmd := exec.Command(binary, fullArgs...)
		cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+tmpDir, "XDG_DATA_HOME="+tmpDir)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Test adding a sample
	output, err := run("add", "sample", "--date", "2026-08-15", "--hrv", "52", "--rhr", "48", "--sleep", "7.5")
	if err != nil {
		t.Fatalf("Failed to add sample: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Saved sample for 2026-08-15") {
		t.Errorf("Expected 'Saved sample' in output, got: %s", output)
	}

	// Test adding an activity
	output, err = run("add", "activity", "run-123", "--date", "2026-08-15", "--load", "85", "--name", "Tempo run")
	if err != nil {
		t.Fatalf("Failed to add activity: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Saved activity run-123") {
		t.Errorf("Expected 'Saved activity' in output, got: %s", output)
	}

	// Test listing samples
	output, err = run("samples")
	if err != nil {
		t.Fatalf("Failed to list samples: %v\n%s", err, output)
	}
	if !strings.Contains(output, "2026-08-15") {
		t.Errorf("Expected date in samples output, got: %s", output)
	}

	// Test listing activities
	output, err = run("activities", "--days", "36500")
	if err != nil {
		t.Fatalf("Failed to list activities: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Tempo run") {
		t.Errorf("Expected activity name in output, got: %s", output)
	}

	// Test the verdict with sparse data: no baselines, no alerts
	output, err = run("status", "2026-08-15")
	if err != nil {
		t.Fatalf("Failed to get status: %v\n%s", err, output)
	}
	if !strings.Contains(output, "READY") {
		t.Errorf("Expected READY state, got: %s", output)
	}

	// Test baselines
	output, err = run("baselines", "2026-08-15")
	if err != nil {
		t.Fatalf("Failed to get baselines: %v\n%s", err, output)
	}
	if !strings.Contains(output, "insufficient data") {
		t.Errorf("Expected insufficient data note, got: %s", output)
	}

	// Test detection on sparse data
	output, err = run("alerts", "detect", "2026-08-15")
	if err != nil {
		t.Fatalf("Failed to detect alerts: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No risks detected") {
		t.Errorf("Expected no risks, got: %s", output)
	}

	// Test alerts listing
	output, err = run("alerts")
	if err != nil {
		t.Fatalf("Failed to list alerts: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No alerts found") {
		t.Errorf("Expected empty alert list, got: %s", output)
	}

	// Test export
	output, err = run("export")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	if !strings.Contains(output, "run-123") {
		t.Errorf("Expected activity in export, got: %s", output)
	}
}

func TestAlertWorkflow(t *testing.T) {
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(projectRoot, "readiness-alerts")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/readiness")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(binary)

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	run := func(args ...string) (string, error) {
		fullArgs := append([]string{"--db", dbPath}, args...)
		cmd := exec.Command(binary, fullArgs...)
		cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+tmpDir, "XDG_DATA_HOME="+tmpDir)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Seed 30 stable days, then a crashed reading on the target date.
	start := time.Date(2026, 7, 17, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		if _, err := run("add", "sample", "--date", date, "--hrv", "50", "--rhr", "48"); err != nil {
			t.Fatalf("Failed to seed sample %s: %v", date, err)
		}
	}
	if _, err := run("add", "sample", "--date", "2026-08-16", "--hrv", "32", "--rhr", "60"); err != nil {
		t.Fatalf("Failed to add sick sample: %v", err)
	}

	// Detection fires an illness alert
	output, err := run("alerts", "detect", "2026-08-16")
	if err != nil {
		t.Fatalf("Failed to detect: %v\n%s", err, output)
	}
	if !strings.Contains(output, "illness") {
		t.Errorf("Expected illness alert, got: %s", output)
	}

	// Re-running detection does not duplicate
	if _, err := run("alerts", "detect", "2026-08-16"); err != nil {
		t.Fatalf("Failed to re-detect: %v", err)
	}
	output, err = run("alerts")
	if err != nil {
		t.Fatalf("Failed to list alerts: %v\n%s", err, output)
	}
	if strings.Count(output, "illness") != 1 {
		t.Errorf("Expected exactly one illness alert, got: %s", output)
	}

	// The verdict reflects the critical alert
	output, err = run("status", "2026-08-16")
	if err != nil {
		t.Fatalf("Failed to get status: %v\n%s", err, output)
	}
	if !strings.Contains(output, "REST") {
		t.Errorf("Expected REST state, got: %s", output)
	}
}
