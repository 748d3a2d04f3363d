// Package mcp exposes the symptom matcher as Model Context Protocol tools.
// The server is stateless: it never touches a database or a session.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

const (
	serverName    = "healthassist-symptoms"
	serverVersion = "v0.1.0"
)

// Server represents the HealthAssist MCP tool server
type Server struct {
	mcpServer *mcp.Server
	logger    *logrus.Logger
}

// NewServer creates a new MCP server instance with every tool registered.
func NewServer(logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}

	serverInfo := &mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}

	s := &Server{
		mcpServer: mcp.NewServer(serverInfo, nil),
		logger:    logger,
	}
	s.registerTools()

	return s
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Start serves the tools over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HealthAssist MCP server on stdio")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
