// ABOUTME: MCP server setup for the readiness engine.
// ABOUTME: Wraps MCP server with storage and readiness service access.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/readiness/internal/readiness"
	"github.com/harperreed/readiness/internal/storage"
)

// Server wraps the MCP server with engine access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	svc       *readiness.Service
	locale    string
}

// NewServer creates a new MCP server over the given storage and service.
func NewServer(repo storage.Repository, svc *readiness.Service, locale string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "readiness",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		svc:       svc,
		locale:    locale,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
