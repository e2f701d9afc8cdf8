package config

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/saravanapriyaa21/take-it-right/internal/catalog"
	"github.com/saravanapriyaa21/take-it-right/internal/database"
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
	"github.com/saravanapriyaa21/take-it-right/internal/reference"
)

// LoadReference loads the reference tables from the configured source.
// Any failure here is fatal to startup: the services never run on partial
// tables.
func LoadReference(ctx context.Context, config *domain.Config, logger *logrus.Logger) (*reference.Tables, error) {
	source := config.Reference.Source
	if source == "" {
		source = domain.ReferenceSourceEmbedded
	}

	var (
		tables *reference.Tables
		err    error
	)
	switch source {
	case domain.ReferenceSourceEmbedded:
		tables, err = reference.Default()
	case domain.ReferenceSourceFile:
		tables, err = reference.LoadFile(config.Reference.Path)
	case domain.ReferenceSourceSQLite:
		tables, err = loadSQLite(ctx, sqlitePath(config))
	case domain.ReferenceSourcePostgres:
		tables, err = loadPostgres(ctx, config.Database, logger)
	default:
		return nil, fmt.Errorf("invalid reference source: %s", source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s reference tables: %w", source, err)
	}

	logger.WithFields(logrus.Fields{
		"source":      source,
		"ingredients": len(tables.Ingredients()),
		"brands":      len(tables.Brands()),
		"fingerprint": tables.Fingerprint(),
	}).Info("Reference tables loaded")
	return tables, nil
}

func sqlitePath(config *domain.Config) string {
	if config.Reference.Path != "" {
		return config.Reference.Path
	}
	return config.Catalog.SQLitePath
}

func loadSQLite(ctx context.Context, path string) (*reference.Tables, error) {
	store, err := catalog.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return catalog.LoadTables(ctx, store)
}

func loadPostgres(ctx context.Context, config domain.DatabaseConfig, logger *logrus.Logger) (*reference.Tables, error) {
	url := database.URL(config)
	if config.RunMigrations {
		if err := database.Migrate(ctx, url, logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	store, err := catalog.NewPostgresStoreFromURL(url)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return catalog.LoadTables(ctx, store)
}
