package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
	"github.com/saravanapriyaa21/take-it-right/internal/reference"
)

// dialect holds the statements that differ between SQLite and PostgreSQL.
type dialect struct {
	insertRule        string
	insertInteraction string
	insertBrand       string
}

var sqliteDialect = dialect{
	insertRule: `INSERT INTO ingredient_rules (
		ingredient, min_spacing_hours, max_daily_dose, single_dose_limit,
		liver_load, kidney_load, stomach_risk, pregnancy_contraindicated, min_age, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	insertInteraction: `INSERT INTO interactions (drug_a, drug_b, risk, severity, category, position)
		VALUES (?, ?, ?, ?, ?, ?)`,
	insertBrand: `INSERT INTO brand_ingredients (alias, position, ingredient) VALUES (?, ?, ?)`,
}

var postgresDialect = dialect{
	insertRule: `INSERT INTO ingredient_rules (
		ingredient, min_spacing_hours, max_daily_dose, single_dose_limit,
		liver_load, kidney_load, stomach_risk, pregnancy_contraindicated, min_age, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
	insertInteraction: `INSERT INTO interactions (drug_a, drug_b, risk, severity, category, position)
		VALUES ($1, $2, $3, $4, $5, $6)`,
	insertBrand: `INSERT INTO brand_ingredients (alias, position, ingredient) VALUES ($1, $2, $3)`,
}

// sqlStore carries the store logic shared by both database/sql backends.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(s scanner) (string, domain.RuleEntry, error) {
	var (
		name string
		rule domain.RuleEntry
	)
	err := s.Scan(
		&name, &rule.MinSpacingHours, &rule.MaxDailyDose, &rule.SingleDoseLimit,
		&rule.LiverLoad, &rule.KidneyLoad, &rule.StomachRisk,
		&rule.Contraindications.Pregnancy, &rule.Contraindications.MinAge,
	)
	return name, rule, err
}

func (s *sqlStore) SaveDocument(ctx context.Context, doc *reference.Document) error {
	// Store the normalized form so that a later load yields the same tables
	tables, err := reference.New(doc)
	if err != nil {
		return err
	}
	doc = tables.Document()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"brand_ingredients", "interactions", "ingredient_rules"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	now := time.Now().UTC()
	for _, name := range sortedKeys(doc.Rules) {
		rule := doc.Rules[name]
		_, err := tx.ExecContext(ctx, s.dialect.insertRule,
			name, rule.MinSpacingHours, rule.MaxDailyDose, rule.SingleDoseLimit,
			rule.LiverLoad, rule.KidneyLoad, rule.StomachRisk,
			rule.Contraindications.Pregnancy, rule.Contraindications.MinAge, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert rule %s: %w", name, err)
		}
	}

	for i, entry := range doc.Interactions {
		_, err := tx.ExecContext(ctx, s.dialect.insertInteraction,
			entry.DrugA, entry.DrugB, entry.Risk, entry.Severity, string(entry.Category), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert interaction %s/%s: %w", entry.DrugA, entry.DrugB, err)
		}
	}

	for _, alias := range sortedKeys(doc.Brands) {
		for pos, ing := range doc.Brands[alias] {
			if _, err := tx.ExecContext(ctx, s.dialect.insertBrand, alias, pos, ing); err != nil {
				return fmt.Errorf("failed to insert brand %s: %w", alias, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

func (s *sqlStore) LoadDocument(ctx context.Context) (*reference.Document, error) {
	doc := &reference.Document{
		Rules:  make(map[string]domain.RuleEntry),
		Brands: make(map[string][]string),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ingredient, min_spacing_hours, max_daily_dose, single_dose_limit,
			liver_load, kidney_load, stomach_risk, pregnancy_contraindicated, min_age
		FROM ingredient_rules
		ORDER BY ingredient
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	for rows.Next() {
		name, rule, err := scanRule(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		doc.Rules[name] = rule
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	if len(doc.Rules) == 0 {
		return nil, ErrEmptyCatalog
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT drug_a, drug_b, risk, severity, category
		FROM interactions
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	for rows.Next() {
		var (
			entry    domain.InteractionEntry
			category string
		)
		if err := rows.Scan(&entry.DrugA, &entry.DrugB, &entry.Risk, &entry.Severity, &category); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		entry.Category = domain.Category(category)
		doc.Interactions = append(doc.Interactions, entry)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT alias, ingredient
		FROM brand_ingredients
		ORDER BY alias, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	for rows.Next() {
		var alias, ingredient string
		if err := rows.Scan(&alias, &ingredient); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		doc.Brands[alias] = append(doc.Brands[alias], ingredient)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *sqlStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	queries := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM ingredient_rules", &c.Rules},
		{"SELECT COUNT(*) FROM interactions", &c.Interactions},
		{"SELECT COUNT(DISTINCT alias) FROM brand_ingredients", &c.Brands},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return Counts{}, fmt.Errorf("failed to count: %w", err)
		}
	}
	return c, nil
}

func (s *sqlStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	doc, err := s.LoadDocument(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	tables, err := reference.New(doc)
	if err != nil {
		return fmt.Errorf("stored catalog is invalid: %w", err)
	}

	export := &CatalogExport{
		Version:     exportVersion,
		ExportedAt:  time.Now().UTC(),
		Fingerprint: tables.Fingerprint(),
		Counts: Counts{
			Rules:        int64(len(doc.Rules)),
			Interactions: int64(len(doc.Interactions)),
			Brands:       int64(len(doc.Brands)),
		},
		Document: tables.Document(),
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func (s *sqlStore) ImportJSON(ctx context.Context, reader io.Reader) (int, error) {
	var export CatalogExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if export.Document == nil {
		return 0, fmt.Errorf("export has no document")
	}
	if err := s.SaveDocument(ctx, export.Document); err != nil {
		return 0, fmt.Errorf("failed to save: %w", err)
	}
	return len(export.Document.Rules), nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate rows: %w", err)
	}
	return rows.Close()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
