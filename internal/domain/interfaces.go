package domain

import (
	"context"
)

// ReferenceData is the read-only view of the reference tables that the
// evaluation pipeline depends on. Implementations must be safe for
// concurrent use and must never change after construction.
type ReferenceData interface {
	// Rule returns the rule entry for a canonical ingredient.
	Rule(ingredient string) (RuleEntry, bool)
	// Expand returns the canonical ingredients a name resolves to, or the
	// name itself when it is not a known alias.
	Expand(name string) []string
	// Interactions returns the interaction table.
	Interactions() []InteractionEntry
	// Fingerprint identifies the table contents.
	Fingerprint() string
}

// DoseAnalyzer evaluates a single dosing event.
type DoseAnalyzer interface {
	Analyze(ctx context.Context, req *DoseRequest) (*AnalysisResult, error)
}

// VerdictCache memoizes verdicts keyed by a digest of the normalized event.
type VerdictCache interface {
	Get(ctx context.Context, key string) (*AnalysisResult, bool)
	Set(ctx context.Context, key string, result *AnalysisResult)
}

// AnalysisObserver receives evaluation outcomes, typically for metrics.
type AnalysisObserver interface {
	ObserveAnalysis(result *AnalysisResult, seconds float64)
	ObserveValidationFailure(field string)
	ObserveCacheHit(tier string)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
