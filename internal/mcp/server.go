// Package mcp exposes the dose analyzer as Model Context Protocol tools, a
// reference resource and a prompt over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

const (
	defaultServerName    = "take-it-right"
	defaultServerVersion = "v0.1.0"
)

// ReferenceCatalog lists the known medicine names
type ReferenceCatalog interface {
	Ingredients() []string
	Brands() []string
	Expand(name string) []string
}

// Server represents the dose-safety MCP server
type Server struct {
	mcpServer *mcp.Server
	analyzer  domain.DoseAnalyzer
	reference ReferenceCatalog
	logger    *logrus.Logger
}

// NewServer creates a new MCP server instance and registers its tools
func NewServer(config domain.MCPConfig, analyzer domain.DoseAnalyzer, reference ReferenceCatalog, logger *logrus.Logger) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("mcp: analyzer is required")
	}
	if reference == nil {
		return nil, errors.New("mcp: reference catalog is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	name := config.ServerName
	if name == "" {
		name = defaultServerName
	}
	version := config.ServerVersion
	if version == "" {
		version = defaultServerVersion
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		analyzer:  analyzer,
		reference: reference,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s, nil
}

// Start runs the server over stdio until ctx is cancelled or the client
// disconnects
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting dose-safety MCP server on stdio")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	s.logger.Info("MCP server stopped")
	return nil
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_dose",
		Description: "Evaluate whether taking a dose of a medicine now is safe. Returns a risk score, risk level, conflicts and guidance.",
	}, s.handleAnalyzeDose)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "explain_verdict",
		Description: "Evaluate a dose and explain the verdict in plain language, with optional tone and detail controls.",
	}, s.handleExplainVerdict)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_medicines",
		Description: "List the ingredients and brand names the analyzer recognizes.",
	}, s.handleListMedicines)

	s.logger.WithField("tool_count", 3).Debug("Registered MCP tools")
}
