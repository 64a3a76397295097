// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers against a temp-dir store.
package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/readiness/internal/cache"
	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/readiness"
	"github.com/harperreed/readiness/internal/storage"
)

// setupTestServer creates a server over a fresh temp-dir database.
func setupTestServer(t *testing.T) (*Server, storage.Repository) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "readiness.db")
	repo, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	c := cache.New(16, time.Hour, nil)
	svc := readiness.New(repo, c, nil, nil, nil)

	server, err := NewServer(repo, svc, "en")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, repo
}

var testTarget = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

const testTargetKey = "2026-08-15"

// seedStableHistory writes 30 days of steady metrics before the target.
func seedStableHistory(t *testing.T, repo storage.Repository) {
	t.Helper()
	for i := 30; i >= 1; i-- {
		day := testTarget.AddDate(0, 0, -i)
		s := models.NewDailySample(day).
			WithHRV(50).
			WithRestingHR(48).
			WithSleepSeconds(8 * 3600)
		if err := repo.UpsertSample(s); err != nil {
			t.Fatalf("Failed to seed sample: %v", err)
		}
	}
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server == nil {
		t.Fatal("Expected non-nil server")
	}
	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.svc == nil {
		t.Error("Expected non-nil service")
	}
}

func TestHandleGetReadinessHealthy(t *testing.T) {
	server, repo := setupTestServer(t)
	seedStableHistory(t, repo)
	healthy := models.NewDailySample(testTarget).
		WithHRV(50).
		WithRestingHR(48).
		WithSleepSeconds(8 * 3600)
	if err := repo.UpsertSample(healthy); err != nil {
		t.Fatalf("Failed to seed target sample: %v", err)
	}

	_, output, err := server.handleGetReadiness(context.Background(), &mcp.CallToolRequest{}, dateInput{Date: testTargetKey})
	if err != nil {
		t.Fatalf("handleGetReadiness failed: %v", err)
	}

	v, ok := output.(*models.Verdict)
	if !ok {
		t.Fatalf("Expected *models.Verdict output, got %T", output)
	}
	if v.State != models.StateReady {
		t.Errorf("State = %s, want %s", v.State, models.StateReady)
	}
	if v.Locale != "en" {
		t.Errorf("Locale = %q, want en", v.Locale)
	}
	if len(v.Alerts) != 0 {
		t.Errorf("Expected no alerts, got %d", len(v.Alerts))
	}
}

func TestHandleGetReadinessInvalidDate(t *testing.T) {
	server, _ := setupTestServer(t)

	_, _, err := server.handleGetReadiness(context.Background(), &mcp.CallToolRequest{}, dateInput{Date: "not-a-date"})
	if err == nil {
		t.Fatal("Expected error for invalid date")
	}
	if !strings.Contains(err.Error(), "invalid date") {
		t.Errorf("Error %q should mention the invalid date", err.Error())
	}
}

func TestHandleGetBaselines(t *testing.T) {
	server, repo := setupTestServer(t)
	seedStableHistory(t, repo)

	_, output, err := server.handleGetBaselines(context.Background(), &mcp.CallToolRequest{}, dateInput{Date: testTargetKey})
	if err != nil {
		t.Fatalf("handleGetBaselines failed: %v", err)
	}

	bundle, ok := output.(*models.BaselineBundle)
	if !ok {
		t.Fatalf("Expected *models.BaselineBundle output, got %T", output)
	}
	if bundle.HRV.Baseline == nil {
		t.Fatal("Expected an HRV baseline from 30 seeded days")
	}
	if *bundle.HRV.Baseline != 50 {
		t.Errorf("HRV baseline = %f, want 50", *bundle.HRV.Baseline)
	}
}

func TestHandleDetectAlertsQuiet(t *testing.T) {
	server, repo := setupTestServer(t)
	seedStableHistory(t, repo)

	_, output, err := server.handleDetectAlerts(context.Background(), &mcp.CallToolRequest{}, dateInput{Date: testTargetKey})
	if err != nil {
		t.Fatalf("handleDetectAlerts failed: %v", err)
	}

	msg, ok := output.(map[string]any)
	if !ok {
		t.Fatalf("Expected message output when nothing fires, got %T", output)
	}
	if msg["message"] != "No alerts fired." {
		t.Errorf("message = %v", msg["message"])
	}
}

func TestHandleDetectAlertsFiresIllness(t *testing.T) {
	server, repo := setupTestServer(t)
	seedStableHistory(t, repo)
	sick := models.NewDailySample(testTarget).
		WithHRV(32.5).
		WithRestingHR(60).
		WithSleepSeconds(8 * 3600)
	if err := repo.UpsertSample(sick); err != nil {
		t.Fatalf("Failed to seed sick sample: %v", err)
	}

	_, output, err := server.handleDetectAlerts(context.Background(), &mcp.CallToolRequest{}, dateInput{Date: testTargetKey})
	if err != nil {
		t.Fatalf("handleDetectAlerts failed: %v", err)
	}

	alerts, ok := output.([]*models.Alert)
	if !ok {
		t.Fatalf("Expected []*models.Alert output, got %T", output)
	}
	var illness *models.Alert
	for _, a := range alerts {
		if a.Type == models.AlertIllness {
			illness = a
		}
	}
	if illness == nil {
		t.Fatal("Expected an illness alert")
	}
	if illness.Severity != models.SeverityCritical {
		t.Errorf("Severity = %s, want critical", illness.Severity)
	}

	// The alerts are persisted, not just returned.
	active := models.StatusActive
	stored, err := repo.ListAlerts(&active, 0)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(stored) != len(alerts) {
		t.Errorf("Expected %d stored active alerts, got %d", len(alerts), len(stored))
	}
}

func TestHandleAcknowledgeAlert(t *testing.T) {
	server, repo := setupTestServer(t)
	seedStableHistory(t, repo)
	sick := models.NewDailySample(testTarget).
		WithHRV(32.5).
		WithRestingHR(60)
	if err := repo.UpsertSample(sick); err != nil {
		t.Fatalf("Failed to seed sick sample: %v", err)
	}
	ctx := context.Background()

	_, output, err := server.handleDetectAlerts(ctx, &mcp.CallToolRequest{}, dateInput{Date: testTargetKey})
	if err != nil {
		t.Fatalf("handleDetectAlerts failed: %v", err)
	}
	alerts := output.([]*models.Alert)
	prefix := alerts[0].ID.String()[:8]

	_, ack, err := server.handleAcknowledgeAlert(ctx, &mcp.CallToolRequest{}, alertIDInput{ID: prefix})
	if err != nil {
		t.Fatalf("handleAcknowledgeAlert failed: %v", err)
	}
	if !strings.Contains(ack.Message, prefix) {
		t.Errorf("Message %q should mention the alert ID", ack.Message)
	}

	active := models.StatusActive
	remaining, err := repo.ListAlerts(&active, 0)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(remaining) != len(alerts)-1 {
		t.Errorf("Expected %d active alerts after acknowledge, got %d", len(alerts)-1, len(remaining))
	}
	acked := models.StatusAcknowledged
	done, err := repo.ListAlerts(&acked, 0)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(done) != 1 {
		t.Errorf("Expected 1 acknowledged alert, got %d", len(done))
	}
}

func TestHandleAcknowledgeAlertUnknownID(t *testing.T) {
	server, _ := setupTestServer(t)

	_, _, err := server.handleAcknowledgeAlert(context.Background(), &mcp.CallToolRequest{}, alertIDInput{ID: "ffffffff"})
	if err == nil {
		t.Fatal("Expected error for unknown alert ID")
	}
}

func TestHandleListAlertsEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	_, output, err := server.handleListAlerts(context.Background(), &mcp.CallToolRequest{}, listAlertsInput{})
	if err != nil {
		t.Fatalf("handleListAlerts failed: %v", err)
	}
	msg, ok := output.(map[string]any)
	if !ok {
		t.Fatalf("Expected message output, got %T", output)
	}
	if msg["message"] != "No alerts found." {
		t.Errorf("message = %v", msg["message"])
	}
}

func TestHandleAddSample(t *testing.T) {
	server, repo := setupTestServer(t)
	hrv := 47.5
	sleep := 7.25

	_, output, err := server.handleAddSample(context.Background(), &mcp.CallToolRequest{}, addSampleInput{
		Date:       testTargetKey,
		HRVMillis:  &hrv,
		SleepHours: &sleep,
	})
	if err != nil {
		t.Fatalf("handleAddSample failed: %v", err)
	}
	if !strings.Contains(output.Message, testTargetKey) {
		t.Errorf("Message %q should mention the date", output.Message)
	}

	stored, err := repo.GetSample(testTarget)
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}
	if stored.HRVMillis == nil || *stored.HRVMillis != 47.5 {
		t.Errorf("HRVMillis = %v, want 47.5", stored.HRVMillis)
	}
	if stored.SleepSeconds == nil || *stored.SleepSeconds != 7.25*3600 {
		t.Errorf("SleepSeconds = %v, want %f", stored.SleepSeconds, 7.25*3600)
	}
	if stored.RestingHR != nil {
		t.Errorf("Expected unset RestingHR, got %v", stored.RestingHR)
	}
}

func TestHandleAddActivityRequiresID(t *testing.T) {
	server, _ := setupTestServer(t)

	_, _, err := server.handleAddActivity(context.Background(), &mcp.CallToolRequest{}, addActivityInput{
		Date: testTargetKey,
		Name: "Morning Run",
	})
	if err == nil {
		t.Fatal("Expected error for missing activity ID")
	}
	if !strings.Contains(err.Error(), "activity ID") {
		t.Errorf("Error %q should mention the missing ID", err.Error())
	}
}

func TestHandleAddActivityAndList(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	load := 85.0

	_, ack, err := server.handleAddActivity(ctx, &mcp.CallToolRequest{}, addActivityInput{
		ID:           "run-123",
		Name:         "Morning Run",
		TrainingLoad: &load,
	})
	if err != nil {
		t.Fatalf("handleAddActivity failed: %v", err)
	}
	if !strings.Contains(ack.Message, "run-123") {
		t.Errorf("Message %q should mention the activity ID", ack.Message)
	}

	_, output, err := server.handleListActivities(ctx, &mcp.CallToolRequest{}, listActivitiesInput{})
	if err != nil {
		t.Fatalf("handleListActivities failed: %v", err)
	}
	activities, ok := output.([]*models.Activity)
	if !ok {
		t.Fatalf("Expected []*models.Activity output, got %T", output)
	}
	if len(activities) != 1 {
		t.Fatalf("Expected 1 activity, got %d", len(activities))
	}
	if activities[0].ExternalID != "run-123" {
		t.Errorf("ExternalID = %q, want run-123", activities[0].ExternalID)
	}
}

func TestHandleListActivitiesEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	_, output, err := server.handleListActivities(context.Background(), &mcp.CallToolRequest{}, listActivitiesInput{Days: 7})
	if err != nil {
		t.Fatalf("handleListActivities failed: %v", err)
	}
	msg, ok := output.(map[string]any)
	if !ok {
		t.Fatalf("Expected message output, got %T", output)
	}
	if msg["message"] != "No activities found." {
		t.Errorf("message = %v", msg["message"])
	}
}

func TestHandleActiveAlertsResource(t *testing.T) {
	server, repo := setupTestServer(t)
	seedStableHistory(t, repo)
	sick := models.NewDailySample(testTarget).
		WithHRV(32.5).
		WithRestingHR(60)
	if err := repo.UpsertSample(sick); err != nil {
		t.Fatalf("Failed to seed sick sample: %v", err)
	}
	ctx := context.Background()
	if _, _, err := server.handleDetectAlerts(ctx, &mcp.CallToolRequest{}, dateInput{Date: testTargetKey}); err != nil {
		t.Fatalf("handleDetectAlerts failed: %v", err)
	}

	result, err := server.handleActiveAlertsResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleActiveAlertsResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Expected 1 content entry, got %d", len(result.Contents))
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %q", result.Contents[0].MIMEType)
	}
	if !strings.Contains(result.Contents[0].Text, "illness") {
		t.Errorf("Resource text should contain the illness alert: %s", result.Contents[0].Text)
	}
}

func TestHandleRecentSamplesResourceEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	result, err := server.handleRecentSamplesResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleRecentSamplesResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Expected 1 content entry, got %d", len(result.Contents))
	}
	if result.Contents[0].URI != "readiness://samples/recent" {
		t.Errorf("URI = %q", result.Contents[0].URI)
	}
}
