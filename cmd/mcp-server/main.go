package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/saravanapriyaa21/take-it-right/internal/cache"
	"github.com/saravanapriyaa21/take-it-right/internal/config"
	"github.com/saravanapriyaa21/take-it-right/internal/mcp"
	"github.com/saravanapriyaa21/take-it-right/internal/service"
)

func main() {
	configFile := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	// Load configuration
	configManager, err := config.NewManagerWithFile(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := configManager.GetConfig()

	// stdout carries protocol frames
	cfg.Logging.Output = "stderr"

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tables, err := config.LoadReference(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load reference tables")
	}

	var opts []service.AnalyzerOption
	if cfg.Cache.Enabled {
		verdicts, err := cache.New(cfg.Cache, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create verdict cache")
		}
		defer verdicts.Close()
		opts = append(opts, service.WithCache(verdicts))
	}

	mcpServer, err := mcp.NewServer(cfg.MCP, service.NewAnalyzer(tables, logger, opts...), tables, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}

	logger.WithField("server", cfg.MCP.ServerName).Info("Starting MCP server on stdio")
	if err := mcpServer.Start(ctx); err != nil {
		logger.WithError(err).Fatal("MCP server failed")
	}
	logger.Info("MCP server stopped")
}
