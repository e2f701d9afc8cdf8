// Package reference holds the static pharmacological reference tables: the
// per-ingredient rule table, the interaction table and the brand map.
//
// Tables are built once at process start and are immutable afterwards, so a
// single instance is shared by every concurrent evaluation without locking.
package reference

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// ErrInvalidTables is returned when reference data is malformed. Callers treat
// it as fatal at startup.
var ErrInvalidTables = errors.New("invalid reference tables")

// Document is the serialized form of the reference tables.
type Document struct {
	Rules        map[string]domain.RuleEntry `yaml:"rules" json:"rules"`
	Interactions []domain.InteractionEntry   `yaml:"interactions" json:"interactions"`
	Brands       map[string][]string         `yaml:"brands" json:"brands"`
}

// Tables is the validated, read-only reference data.
type Tables struct {
	rules        map[string]domain.RuleEntry
	interactions []domain.InteractionEntry
	brands       map[string][]string
	fingerprint  string
}

var _ domain.ReferenceData = (*Tables)(nil)

// New validates doc and builds immutable Tables from it. The document is
// copied, so later changes to doc do not affect the returned Tables.
func New(doc *Document) (*Tables, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", ErrInvalidTables)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("%w: rule table is empty", ErrInvalidTables)
	}

	t := &Tables{
		rules:        make(map[string]domain.RuleEntry, len(doc.Rules)),
		interactions: make([]domain.InteractionEntry, 0, len(doc.Interactions)),
		brands:       make(map[string][]string, len(doc.Brands)),
	}

	for name, rule := range doc.Rules {
		key := NormalizeName(name)
		if key == "" {
			return nil, fmt.Errorf("%w: rule with empty ingredient name", ErrInvalidTables)
		}
		if err := validateRule(key, rule); err != nil {
			return nil, err
		}
		if _, dup := t.rules[key]; dup {
			return nil, fmt.Errorf("%w: ingredient %q defined twice", ErrInvalidTables, key)
		}
		t.rules[key] = rule
	}

	for i, entry := range doc.Interactions {
		entry.DrugA = NormalizeName(entry.DrugA)
		entry.DrugB = NormalizeName(entry.DrugB)
		if entry.DrugA == "" || entry.DrugB == "" {
			return nil, fmt.Errorf("%w: interaction %d has an empty drug", ErrInvalidTables, i)
		}
		if entry.Risk == "" {
			return nil, fmt.Errorf("%w: interaction %d has no risk text", ErrInvalidTables, i)
		}
		if entry.Severity < 1 || entry.Severity > 10 {
			return nil, fmt.Errorf("%w: interaction %d severity %d outside 1..10", ErrInvalidTables, i, entry.Severity)
		}
		if entry.Category == "" {
			entry.Category = domain.CategoryFromText(entry.Risk)
		}
		t.interactions = append(t.interactions, entry)
	}

	for alias, ingredients := range doc.Brands {
		key := NormalizeName(alias)
		if key == "" {
			return nil, fmt.Errorf("%w: brand with empty alias", ErrInvalidTables)
		}
		if len(ingredients) == 0 {
			return nil, fmt.Errorf("%w: brand %q has no ingredients", ErrInvalidTables, key)
		}
		expanded := make([]string, 0, len(ingredients))
		for _, ing := range ingredients {
			name := NormalizeName(ing)
			if name == "" {
				return nil, fmt.Errorf("%w: brand %q has an empty ingredient", ErrInvalidTables, key)
			}
			expanded = append(expanded, name)
		}
		t.brands[key] = expanded
	}

	fingerprint, err := t.computeFingerprint()
	if err != nil {
		return nil, err
	}
	t.fingerprint = fingerprint

	return t, nil
}

func validateRule(name string, rule domain.RuleEntry) error {
	switch {
	case rule.MinSpacingHours <= 0:
		return fmt.Errorf("%w: %s min_spacing_hours must be positive", ErrInvalidTables, name)
	case rule.MaxDailyDose <= 0:
		return fmt.Errorf("%w: %s max_daily_dose must be positive", ErrInvalidTables, name)
	case rule.SingleDoseLimit <= 0:
		return fmt.Errorf("%w: %s single_dose_limit must be positive", ErrInvalidTables, name)
	case rule.LiverLoad < 0, rule.KidneyLoad < 0, rule.StomachRisk < 0:
		return fmt.Errorf("%w: %s organ loads must not be negative", ErrInvalidTables, name)
	case rule.Contraindications.MinAge < 0:
		return fmt.Errorf("%w: %s min_age must not be negative", ErrInvalidTables, name)
	}
	return nil
}

// Rule returns the rule entry for a canonical ingredient.
func (t *Tables) Rule(ingredient string) (domain.RuleEntry, bool) {
	rule, ok := t.rules[ingredient]
	return rule, ok
}

// HasRule reports whether the ingredient is in the rule table.
func (t *Tables) HasRule(ingredient string) bool {
	_, ok := t.rules[ingredient]
	return ok
}

// Expand returns the canonical ingredients for name, or a single-element
// slice holding name when it is not a known brand. The returned slice is
// owned by the caller.
func (t *Tables) Expand(name string) []string {
	if ingredients, ok := t.brands[name]; ok {
		out := make([]string, len(ingredients))
		copy(out, ingredients)
		return out
	}
	return []string{name}
}

// Interactions returns a copy of the interaction table.
func (t *Tables) Interactions() []domain.InteractionEntry {
	out := make([]domain.InteractionEntry, len(t.interactions))
	copy(out, t.interactions)
	return out
}

// Ingredients returns the sorted canonical ingredient names.
func (t *Tables) Ingredients() []string {
	names := make([]string, 0, len(t.rules))
	for name := range t.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Brands returns the sorted brand aliases.
func (t *Tables) Brands() []string {
	names := make([]string, 0, len(t.brands))
	for name := range t.brands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fingerprint returns a digest of the table contents.
func (t *Tables) Fingerprint() string {
	return t.fingerprint
}

// Document returns a deep copy of the tables in serialized form.
func (t *Tables) Document() *Document {
	doc := &Document{
		Rules:        make(map[string]domain.RuleEntry, len(t.rules)),
		Interactions: t.Interactions(),
		Brands:       make(map[string][]string, len(t.brands)),
	}
	for name, rule := range t.rules {
		doc.Rules[name] = rule
	}
	for alias := range t.brands {
		doc.Brands[alias] = t.Expand(alias)
	}
	return doc
}

// computeFingerprint hashes the canonical JSON form. encoding/json sorts map
// keys, which makes the digest independent of map iteration order.
func (t *Tables) computeFingerprint() (string, error) {
	payload, err := json.Marshal(struct {
		Rules        map[string]domain.RuleEntry `json:"rules"`
		Interactions []domain.InteractionEntry   `json:"interactions"`
		Brands       map[string][]string         `json:"brands"`
	}{t.rules, t.interactions, t.brands})
	if err != nil {
		return "", fmt.Errorf("fingerprinting reference tables: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
