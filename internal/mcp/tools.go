// ABOUTME: MCP tool implementations for readiness verdicts and alerts.
// ABOUTME: Exposes detection, baselines, alert lifecycle, and manual data entry.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/readiness/internal/models"
)

func (s *Server) registerTools() {
	// get_readiness
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_readiness",
		Description: "Get the readiness verdict for a date (cached; defaults to today)",
	}, s.handleGetReadiness)

	// get_baselines
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_baselines",
		Description: "Get HRV, resting HR, and sleep baselines for a date",
	}, s.handleGetBaselines)

	// detect_alerts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "detect_alerts",
		Description: "Run risk detection for a date and persist any firing alerts",
	}, s.handleDetectAlerts)

	// list_alerts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_alerts",
		Description: "List alerts, optionally filtered by status (active, acknowledged, resolved)",
	}, s.handleListAlerts)

	// acknowledge_alert
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "acknowledge_alert",
		Description: "Acknowledge an alert by ID or ID prefix",
	}, s.handleAcknowledgeAlert)

	// add_sample
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_sample",
		Description: "Record daily wellness metrics (HRV, resting HR, sleep) for a date",
	}, s.handleAddSample)

	// add_activity
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_activity",
		Description: "Record a training activity with load or training effect",
	}, s.handleAddActivity)

	// list_activities
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_activities",
		Description: "List activities in the trailing N days (default 28)",
	}, s.handleListActivities)
}

// Tool input/output types

type dateInput struct {
	Date   string `json:"date,omitempty" jsonschema:"Target date (YYYY-MM-DD), defaults to today"`
	Locale string `json:"locale,omitempty" jsonschema:"Message locale, defaults to configured locale"`
}

type listAlertsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status (active, acknowledged, resolved)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type alertIDInput struct {
	ID string `json:"id" jsonschema:"Alert ID or prefix"`
}

type addSampleInput struct {
	Date              string   `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	HRVMillis         *float64 `json:"hrv_ms,omitempty" jsonschema:"Overnight HRV in milliseconds"`
	RestingHR         *float64 `json:"resting_hr_bpm,omitempty" jsonschema:"Resting heart rate in bpm"`
	SleepHours        *float64 `json:"sleep_hours,omitempty" jsonschema:"Sleep duration in hours"`
	TrainingReadiness *float64 `json:"training_readiness,omitempty" jsonschema:"Device readiness score (0-100)"`
}

type addActivityInput struct {
	ID                    string   `json:"id" jsonschema:"Provider activity ID"`
	Date                  string   `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	Name                  string   `json:"name,omitempty" jsonschema:"Activity name"`
	TrainingLoad          *float64 `json:"training_load,omitempty" jsonschema:"Provider training load"`
	AerobicTrainingEffect *float64 `json:"aerobic_training_effect,omitempty" jsonschema:"Aerobic training effect (0-5)"`
	DurationSeconds       float64  `json:"duration_seconds,omitempty" jsonschema:"Duration in seconds"`
	DistanceMeters        float64  `json:"distance_meters,omitempty" jsonschema:"Distance in meters"`
}

type listActivitiesInput struct {
	Days int `json:"days,omitempty" jsonschema:"Trailing window in days (default 28)"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleGetReadiness(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}
	locale := input.Locale
	if locale == "" {
		locale = s.locale
	}

	v, err := s.svc.Readiness(date, locale)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute readiness: %w", err)
	}
	return nil, v, nil
}

func (s *Server) handleGetBaselines(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	bundle, err := s.svc.CalculateBaselines(date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to calculate baselines: %w", err)
	}
	return nil, bundle, nil
}

func (s *Server) handleDetectAlerts(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	alerts, err := s.svc.DetectAlerts(date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to detect alerts: %w", err)
	}
	if len(alerts) == 0 {
		return nil, map[string]any{"message": "No alerts fired."}, nil
	}
	return nil, alerts, nil
}

func (s *Server) handleListAlerts(ctx context.Context, req *mcp.CallToolRequest, input listAlertsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var status *models.AlertStatus
	if input.Status != "" {
		st := models.AlertStatus(input.Status)
		status = &st
	}

	alerts, err := s.repo.ListAlerts(status, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	if len(alerts) == 0 {
		return nil, map[string]any{"message": "No alerts found."}, nil
	}
	return nil, alerts, nil
}

func (s *Server) handleAcknowledgeAlert(ctx context.Context, req *mcp.CallToolRequest, input alertIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.SetAlertStatus(input.ID, models.StatusAcknowledged); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to acknowledge alert: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Acknowledged alert: %s", input.ID),
	}, nil
}

func (s *Server) handleAddSample(ctx context.Context, req *mcp.CallToolRequest, input addSampleInput) (*mcp.CallToolResult, simpleOutput, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	sample := models.NewDailySample(date)
	sample.HRVMillis = input.HRVMillis
	sample.RestingHR = input.RestingHR
	sample.TrainingReadiness = input.TrainingReadiness
	if input.SleepHours != nil {
		seconds := *input.SleepHours * 3600
		sample.SleepSeconds = &seconds
	}

	if err := s.repo.UpsertSample(sample); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to save sample: %w", err)
	}
	s.svc.ClearCache()

	return nil, simpleOutput{
		Message: fmt.Sprintf("Saved sample for %s", models.DateKey(date)),
	}, nil
}

func (s *Server) handleAddActivity(ctx context.Context, req *mcp.CallToolRequest, input addActivityInput) (*mcp.CallToolResult, simpleOutput, error) {
	if input.ID == "" {
		return nil, simpleOutput{}, fmt.Errorf("activity ID is required")
	}
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	a := models.NewActivity(input.ID, date).WithName(input.Name)
	a.TrainingLoad = input.TrainingLoad
	a.AerobicTrainingEffect = input.AerobicTrainingEffect
	a.DurationSeconds = input.DurationSeconds
	a.DistanceMeters = input.DistanceMeters

	if err := s.repo.UpsertActivity(a); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to save activity: %w", err)
	}
	s.svc.ClearCache()

	return nil, simpleOutput{
		Message: fmt.Sprintf("Saved activity %s (%s)", input.ID, models.DateKey(date)),
	}, nil
}

func (s *Server) handleListActivities(ctx context.Context, req *mcp.CallToolRequest, input listActivitiesInput) (*mcp.CallToolResult, any, error) {
	days := input.Days
	if days <= 0 {
		days = 28
	}

	to := models.DateOf(time.Now())
	activities, err := s.repo.ListActivities(to.AddDate(0, 0, -days), to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list activities: %w", err)
	}
	if len(activities) == 0 {
		return nil, map[string]any{"message": "No activities found."}, nil
	}
	return nil, activities, nil
}

func resolveDate(s string) (time.Time, error) {
	if s == "" {
		return models.DateOf(time.Now()), nil
	}
	t, err := models.ParseDateKey(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
