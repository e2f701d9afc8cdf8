// Package domain contains the core types for single-dose medication safety
// assessment: the dose event under evaluation, the conflicts discovered while
// evaluating it, and the verdict returned to callers.
//
// Reference data types (ingredient rules, interactions) live here as well so
// that the evaluation pipeline and the storage layers share one vocabulary.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// RiskLevel is the final classification of a dosing event.
type RiskLevel string

const (
	RiskSafe    RiskLevel = "SAFE"
	RiskCaution RiskLevel = "CAUTION"
	RiskHigh    RiskLevel = "HIGH RISK"
)

// Category groups conflicts that describe the same underlying concern.
// Conflicts sharing a category are merged during deduplication.
type Category string

const (
	CategoryLiver     Category = "liver_issue"
	CategoryKidney    Category = "kidney_issue"
	CategoryDuplicate Category = "duplicate_issue"
	CategoryNSAID     Category = "nsaid_issue"

	// CategoryInfant marks the infant hard stop. Its guidance is the
	// conflict text itself.
	CategoryInfant Category = "infant_supervision"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRiskLevel  = errors.New("invalid risk level")
	ErrInvalidSeverity   = errors.New("severity must be between 1 and 10")
	ErrInvalidClockValue = errors.New("invalid clock value")
)

// IsValid reports whether r is one of the three published levels.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskSafe, RiskCaution, RiskHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// RequiresAction reports whether the caller should be told not to proceed
// without further checks.
func (r RiskLevel) RequiresAction() bool {
	return r == RiskCaution || r == RiskHigh
}

// LogFields returns structured logging fields for audit trails.
func (r RiskLevel) LogFields() map[string]any {
	return map[string]any{
		"risk_level":      string(r),
		"is_valid":        r.IsValid(),
		"requires_action": r.RequiresAction(),
	}
}

// ParseRiskLevel converts a string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidRiskLevel, s)
	}
	return r, nil
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// CategoryFromText derives a category from free-form risk text using the
// keyword precedence liver, kidney, duplicate, nsaid. Text matching none of
// them has no category and groups by its own lower-cased text.
//
// Only the reference loader calls this, once per interaction entry. Conflicts
// raised by the engine are tagged explicitly when they are created.
func CategoryFromText(text string) Category {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "liver"):
		return CategoryLiver
	case strings.Contains(lower, "kidney"):
		return CategoryKidney
	case strings.Contains(lower, "duplicate"):
		return CategoryDuplicate
	case strings.Contains(lower, "nsaid"):
		return CategoryNSAID
	default:
		return ""
	}
}

// Conflict is a discovered safety concern. It is data, not an error.
type Conflict struct {
	Risk     string   `json:"risk"`
	Severity int      `json:"severity"`
	Category Category `json:"-"`
}

// NewConflict creates a tagged conflict. An empty category groups the
// conflict by its lower-cased text.
func NewConflict(risk string, severity int, category Category) Conflict {
	return Conflict{Risk: risk, Severity: severity, Category: category}
}

// Key returns the deduplication key for the conflict.
func (c Conflict) Key() string {
	if c.Category != "" {
		return string(c.Category)
	}
	return strings.ToLower(c.Risk)
}

// Validate checks the severity bounds.
func (c Conflict) Validate() error {
	if c.Severity < 1 || c.Severity > 10 {
		return fmt.Errorf("%w: %d", ErrInvalidSeverity, c.Severity)
	}
	return nil
}

// ClockTime is a wall-clock time of day expressed in minutes after midnight.
type ClockTime int

// NewClockTime builds a ClockTime from hour and minute components.
func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %d:%d", ErrInvalidClockValue, hour, minute)
	}
	return ClockTime(hour*60 + minute), nil
}

// Hours returns the time of day as fractional hours.
func (t ClockTime) Hours() float64 {
	return float64(t) / 60
}

// String formats the time as HH:MM.
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// DoseEvent is a validated and normalized dosing event. It is created per
// evaluation and never shared between requests.
type DoseEvent struct {
	Medicine     string     `json:"medicine"`
	Dose         float64    `json:"dose"`
	DoseHistory  []float64  `json:"dose_history"`
	Time         ClockTime  `json:"time"`
	PreviousTime *ClockTime `json:"previous_time,omitempty"`
	OtherMeds    []string   `json:"other_meds"`
	Alcohol      bool       `json:"alcohol"`
	Age          *float64   `json:"age,omitempty"`
	Weight       *float64   `json:"weight,omitempty"`
	Pregnant     bool       `json:"pregnant"`
}

// HasAge reports whether an age was supplied.
func (e DoseEvent) HasAge() bool {
	return e.Age != nil
}

// HasWeight reports whether a weight was supplied.
func (e DoseEvent) HasWeight() bool {
	return e.Weight != nil
}

// AnalysisResult is the verdict for one dosing event. RiskLevel is derived
// from the other fields and is never set independently.
type AnalysisResult struct {
	Score             int        `json:"score"`
	RiskLevel         RiskLevel  `json:"risk_level"`
	Issues            []string   `json:"issues"`
	Conflicts         []Conflict `json:"conflicts"`
	Guidance          []string   `json:"guidance"`
	LiverLoad         float64    `json:"liver_load"`
	KidneyLoad        float64    `json:"kidney_load"`
	StomachRisk       float64    `json:"stomach_risk"`
	NSAIDStacking     bool       `json:"nsaid_stacking"`
	DuplicateStacking bool       `json:"duplicate_stacking"`
	TotalDose         float64    `json:"total_dose"`
	MinSpacing        float64    `json:"min_spacing"`
	Medicine          string     `json:"medicine"`

	// Signals holds the intermediate decisions behind the verdict. It is
	// not part of the wire format.
	Signals Signals `json:"-"`
}

// Signals are the boolean and numeric inputs to classification.
type Signals struct {
	AbsoluteBlock    bool
	Overdose         bool
	NearLimit        bool
	SpacingViolation bool
	RawScore         float64
	DosePerKg        float64
}

// HasConflict reports whether any retained conflict has the given category.
func (r *AnalysisResult) HasConflict(category Category) bool {
	for _, c := range r.Conflicts {
		if c.Category == category {
			return true
		}
	}
	return false
}

// LogFields returns structured logging fields for the verdict. Dose values
// are not included.
func (r *AnalysisResult) LogFields() map[string]any {
	return map[string]any{
		"medicine":       r.Medicine,
		"score":          r.Score,
		"risk_level":     string(r.RiskLevel),
		"conflicts":      len(r.Conflicts),
		"absolute_block": r.Signals.AbsoluteBlock,
		"nsaid_stacking": r.NSAIDStacking,
		"duplicates":     r.DuplicateStacking,
	}
}

// Clone returns a deep copy of the result.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Issues = cloneSlice(r.Issues)
	out.Conflicts = cloneSlice(r.Conflicts)
	out.Guidance = cloneSlice(r.Guidance)
	return &out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
