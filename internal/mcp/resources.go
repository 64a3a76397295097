// ABOUTME: MCP resource implementations for readiness data.
// ABOUTME: Provides readiness://today, readiness://alerts/active, and readiness://samples/recent.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/readiness/internal/models"
)

func (s *Server) registerResources() {
	// readiness://today - today's full verdict
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "readiness://today",
		Name:        "Today's Readiness",
		Description: "The full readiness verdict for today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// readiness://alerts/active - all currently active alerts
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "readiness://alerts/active",
		Name:        "Active Alerts",
		Description: "All currently active risk alerts",
		MIMEType:    "application/json",
	}, s.handleActiveAlertsResource)

	// readiness://samples/recent - last 14 daily samples
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "readiness://samples/recent",
		Name:        "Recent Daily Samples",
		Description: "The last 14 days of synced wellness metrics",
		MIMEType:    "application/json",
	}, s.handleRecentSamplesResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	v, err := s.svc.Readiness(time.Now(), s.locale)
	if err != nil {
		return nil, fmt.Errorf("failed to compute readiness: %w", err)
	}
	return jsonResource("readiness://today", v)
}

func (s *Server) handleActiveAlertsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	active := models.StatusActive
	alerts, err := s.repo.ListAlerts(&active, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return jsonResource("readiness://alerts/active", alerts)
}

func (s *Server) handleRecentSamplesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	samples, err := s.repo.ListRecentSamples(14)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	return jsonResource("readiness://samples/recent", samples)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
