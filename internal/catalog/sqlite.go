package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	sqlStore
	dbPath string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite catalog store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		sqlStore: sqlStore{db: db, dialect: sqliteDialect},
		dbPath:   dbPath,
	}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS ingredient_rules (
		ingredient TEXT PRIMARY KEY,
		min_spacing_hours REAL NOT NULL,
		max_daily_dose REAL NOT NULL,
		single_dose_limit REAL NOT NULL,
		liver_load REAL NOT NULL DEFAULT 0,
		kidney_load REAL NOT NULL DEFAULT 0,
		stomach_risk REAL NOT NULL DEFAULT 0,
		pregnancy_contraindicated INTEGER NOT NULL DEFAULT 0,
		min_age REAL NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		drug_a TEXT NOT NULL,
		drug_b TEXT NOT NULL,
		risk TEXT NOT NULL,
		severity INTEGER NOT NULL CHECK (severity BETWEEN 1 AND 10),
		category TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		UNIQUE(drug_a, drug_b, risk)
	);

	CREATE TABLE IF NOT EXISTS brand_ingredients (
		alias TEXT NOT NULL,
		position INTEGER NOT NULL,
		ingredient TEXT NOT NULL,
		PRIMARY KEY (alias, position)
	);

	CREATE INDEX IF NOT EXISTS idx_interactions_position ON interactions(position);
	`

	_, err := db.Exec(schema)
	return err
}
