package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/saravanapriyaa21/take-it-right/internal/api"
	"github.com/saravanapriyaa21/take-it-right/internal/cache"
	"github.com/saravanapriyaa21/take-it-right/internal/config"
	"github.com/saravanapriyaa21/take-it-right/internal/database"
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
	"github.com/saravanapriyaa21/take-it-right/internal/metrics"
	"github.com/saravanapriyaa21/take-it-right/internal/service"
)

var version = "dev"

func main() {
	configFile := flag.String("config", "", "path to config.yaml (default: search ., ./config, /etc/take-it-right)")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	// Load configuration
	configManager, err := config.NewManagerWithFile(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) error {
	tables, err := config.LoadReference(ctx, cfg, logger)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	probes := map[string]api.Probe{}
	opts := []service.AnalyzerOption{service.WithObserver(collector)}

	if cfg.Cache.Enabled {
		verdicts, err := newVerdictCache(cfg.Cache, logger, collector)
		if err != nil {
			return err
		}
		defer verdicts.Close()
		opts = append(opts, service.WithCache(verdicts))
		probes["cache"] = func(ctx context.Context) interface{} { return verdicts.Status(ctx) }
	}

	if cfg.Reference.Source == domain.ReferenceSourcePostgres {
		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		probes["catalog"] = catalogProbe(db)
	} else {
		probes["catalog"] = func(context.Context) interface{} {
			return map[string]interface{}{"source": cfg.Reference.Source}
		}
	}

	analyzer := service.NewAnalyzer(tables, logger, opts...)

	server, err := api.NewServer(cfg, api.Dependencies{
		Analyzer:    analyzer,
		Reference:   tables,
		Logger:      logger,
		Metrics:     collector,
		Probes:      probes,
		AuditOutput: os.Stdout,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host":    cfg.Server.Host,
		"port":    cfg.Server.Port,
		"version": version,
	}).Info("Starting take-it-right API")

	return server.Start(ctx)
}

func newVerdictCache(cfg domain.CacheConfig, logger *logrus.Logger, collector *metrics.Collector) (*cache.VerdictCache, error) {
	opts := []cache.Option{cache.WithHitObserver(collector.ObserveCacheHit)}
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStore(cfg.RedisURL, cfg.RedisTimeout)
		if err != nil {
			// The shared tier is optional; run on the memory tier alone
			logger.WithError(err).Warn("Redis unavailable, verdict cache is memory-only")
		} else {
			opts = append(opts, cache.WithSharedStore(store))
		}
	}
	return cache.New(cfg, logger, opts...)
}

func catalogProbe(db *database.DB) api.Probe {
	return func(ctx context.Context) interface{} {
		status := map[string]interface{}{"source": domain.ReferenceSourcePostgres}
		if err := db.Health(ctx); err != nil {
			status["status"] = "unavailable"
			return status
		}
		status["status"] = "ok"
		if rows, err := db.CatalogRows(ctx); err == nil {
			status["rules"] = rows
		}
		stats := db.Stats()
		status["pool"] = map[string]interface{}{
			"total_conns":    stats.TotalConns(),
			"idle_conns":     stats.IdleConns(),
			"acquired_conns": stats.AcquiredConns(),
		}
		return status
	}
}
