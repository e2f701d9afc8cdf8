package domain

// Contraindications are the absolute blocks configured for an ingredient.
type Contraindications struct {
	Pregnancy bool    `yaml:"pregnancy" json:"pregnancy"`
	MinAge    float64 `yaml:"min_age" json:"min_age"`
}

// RuleEntry holds the static pharmacological limits of one canonical
// ingredient.
type RuleEntry struct {
	MinSpacingHours   float64           `yaml:"min_spacing_hours" json:"min_spacing_hours"`
	MaxDailyDose      float64           `yaml:"max_daily_dose" json:"max_daily_dose"`
	SingleDoseLimit   float64           `yaml:"single_dose_limit" json:"single_dose_limit"`
	LiverLoad         float64           `yaml:"liver_load" json:"liver_load"`
	KidneyLoad        float64           `yaml:"kidney_load" json:"kidney_load"`
	StomachRisk       float64           `yaml:"stomach_risk" json:"stomach_risk"`
	Contraindications Contraindications `yaml:"contraindications" json:"contraindications"`
}

// InteractionEntry describes a known interaction between two ingredients.
// The pair is unordered.
type InteractionEntry struct {
	DrugA    string   `yaml:"drugA" json:"drugA"`
	DrugB    string   `yaml:"drugB" json:"drugB"`
	Risk     string   `yaml:"risk" json:"risk"`
	Severity int      `yaml:"severity" json:"severity"`
	Category Category `yaml:"category,omitempty" json:"category,omitempty"`
}

// Matches reports whether the entry applies to the pair (a, b) in either
// order.
func (e InteractionEntry) Matches(a, b string) bool {
	return (e.DrugA == a && e.DrugB == b) || (e.DrugA == b && e.DrugB == a)
}

// Conflict converts the entry into a conflict carrying its category.
func (e InteractionEntry) Conflict() Conflict {
	return NewConflict(e.Risk, e.Severity, e.Category)
}
