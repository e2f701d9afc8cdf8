// Package catalog persists the reference tables so that they can be curated
// outside the binary and loaded at startup. Only reference data is stored;
// dose requests and verdicts never are.
package catalog

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/saravanapriyaa21/take-it-right/internal/reference"
)

// ErrEmptyCatalog is returned when a store holds no ingredient rules.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Counts reports the number of rows per catalog table.
type Counts struct {
	Rules        int64 `json:"rules"`
	Interactions int64 `json:"interactions"`
	Brands       int64 `json:"brands"`
}

// Store defines the interface for catalog storage operations.
type Store interface {
	// SaveDocument replaces the stored catalog with doc in one transaction.
	SaveDocument(ctx context.Context, doc *reference.Document) error

	// LoadDocument reads the whole catalog. It returns ErrEmptyCatalog
	// when no rules are stored.
	LoadDocument(ctx context.Context) (*reference.Document, error)

	// Counts returns the number of stored entries per table.
	Counts(ctx context.Context) (Counts, error)

	// ExportJSON writes the catalog to writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON validates an exported catalog and saves it. It returns the
	// number of rules imported.
	ImportJSON(ctx context.Context, reader io.Reader) (int, error)

	// Close closes the store and releases resources.
	Close() error
}

// CatalogExport represents the JSON export format.
type CatalogExport struct {
	Version     string              `json:"version"`
	ExportedAt  time.Time           `json:"exported_at"`
	Fingerprint string              `json:"fingerprint"`
	Counts      Counts              `json:"counts"`
	Document    *reference.Document `json:"document"`
}

const exportVersion = "1.0"

// LoadTables reads the catalog from store and builds validated Tables.
func LoadTables(ctx context.Context, store Store) (*reference.Tables, error) {
	doc, err := store.LoadDocument(ctx)
	if err != nil {
		return nil, err
	}
	return reference.New(doc)
}
