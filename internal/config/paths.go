package config

import (
	"os"
	"path/filepath"
)

// DataDirEnv overrides the directory holding local state
const DataDirEnv = EnvPrefix + "_DATA_DIR"

// DefaultDataDir returns the base directory for local data files
func DefaultDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".take-it-right"
	}
	return filepath.Join(homeDir, ".take-it-right")
}

// DefaultCatalogPath returns the default SQLite catalog location
func DefaultCatalogPath() string {
	return filepath.Join(DefaultDataDir(), "catalog.db")
}

// DefaultExportDir returns the directory catalog exports are written to
func DefaultExportDir() string {
	return filepath.Join(DefaultDataDir(), "exports")
}

// EnsureDataDir creates the data and export directories if they don't exist
func EnsureDataDir() error {
	if err := os.MkdirAll(DefaultDataDir(), 0o755); err != nil {
		return err
	}
	return os.MkdirAll(DefaultExportDir(), 0o755)
}
