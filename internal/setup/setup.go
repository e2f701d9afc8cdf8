// Package setup provides catalog administration for the dose-safety
// services: seeding, importing, exporting and inspecting the persistent
// reference catalog.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/saravanapriyaa21/take-it-right/internal/catalog"
	"github.com/saravanapriyaa21/take-it-right/internal/database"
	"github.com/saravanapriyaa21/take-it-right/internal/reference"
)

// Target selects the catalog store a command operates on.
type Target struct {
	SQLitePath  string
	PostgresURL string
}

// Status describes the state of a catalog store.
type Status struct {
	Backend     string
	Location    string
	Counts      catalog.Counts
	Fingerprint string
	Issues      []string
}

// Kind returns the backend name of the target.
func (t Target) Kind() string {
	if t.PostgresURL != "" {
		return "postgres"
	}
	return "sqlite"
}

// OpenStore opens the store named by target. PostgreSQL targets are
// migrated before the store is returned.
func OpenStore(ctx context.Context, target Target, logger *logrus.Logger) (catalog.Store, error) {
	switch {
	case target.PostgresURL != "" && target.SQLitePath != "":
		return nil, fmt.Errorf("choose either --sqlite or --postgres, not both")
	case target.PostgresURL != "":
		if err := database.Migrate(ctx, target.PostgresURL, logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return catalog.NewPostgresStoreFromURL(target.PostgresURL)
	case target.SQLitePath != "":
		return catalog.NewSQLiteStore(target.SQLitePath)
	default:
		return nil, fmt.Errorf("a catalog target is required")
	}
}

// ValidateFile decodes and validates a YAML reference document.
func ValidateFile(path string) (*reference.Tables, error) {
	return reference.LoadFile(path)
}

// Import validates the YAML document at path and replaces the stored
// catalog with it. Nothing is written when validation fails.
func Import(ctx context.Context, store catalog.Store, path string) (*reference.Tables, error) {
	tables, err := ValidateFile(path)
	if err != nil {
		return nil, err
	}
	if err := store.SaveDocument(ctx, tables.Document()); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	return tables, nil
}

// Seed writes the embedded default dataset into the store.
func Seed(ctx context.Context, store catalog.Store) (*reference.Tables, error) {
	tables, err := reference.Default()
	if err != nil {
		return nil, err
	}
	if err := store.SaveDocument(ctx, tables.Document()); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	return tables, nil
}

// Export writes the stored catalog as JSON to path, creating parent
// directories as needed.
func Export(ctx context.Context, store catalog.Store, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := store.ExportJSON(ctx, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// GetStatus reports the counts and fingerprint of the stored catalog.
// Problems with the stored data are reported as issues, not errors.
func GetStatus(ctx context.Context, store catalog.Store, target Target) (*Status, error) {
	status := &Status{Backend: target.Kind(), Location: target.SQLitePath}
	if target.PostgresURL != "" {
		status.Location = "(postgres)"
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count catalog rows: %w", err)
	}
	status.Counts = counts

	tables, err := catalog.LoadTables(ctx, store)
	switch {
	case errors.Is(err, catalog.ErrEmptyCatalog):
		status.Issues = append(status.Issues, "Catalog is empty; run import or seed")
	case err != nil:
		status.Issues = append(status.Issues, fmt.Sprintf("Stored catalog does not validate: %v", err))
	default:
		status.Fingerprint = tables.Fingerprint()
	}

	return status, nil
}
