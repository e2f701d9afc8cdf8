package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

func validDocument() *Document {
	return &Document{
		Rules: map[string]domain.RuleEntry{
			"Paracetamol": {
				MinSpacingHours: 4,
				MaxDailyDose:    4000,
				SingleDoseLimit: 1000,
				LiverLoad:       3,
			},
			"ibuprofen": {
				MinSpacingHours: 6,
				MaxDailyDose:    2400,
				SingleDoseLimit: 800,
				KidneyLoad:      2,
			},
		},
		Interactions: []domain.InteractionEntry{
			{DrugA: "Paracetamol", DrugB: "alcohol", Risk: "Alcohol increases liver damage risk", Severity: 8},
			{DrugA: "ibuprofen", DrugB: "aspirin", Risk: "Bleeding risk", Severity: 6, Category: domain.CategoryNSAID},
		},
		Brands: map[string][]string{
			"Crocin":    {"Paracetamol"},
			"combiflam": {"ibuprofen", "paracetamol"},
		},
	}
}

func TestNew_NormalizesNames(t *testing.T) {
	tables, err := New(validDocument())
	require.NoError(t, err)

	_, ok := tables.Rule("paracetamol")
	assert.True(t, ok)
	assert.Equal(t, []string{"paracetamol"}, tables.Expand("crocin"))
	assert.Equal(t, []string{"ibuprofen", "paracetamol"}, tables.Expand("combiflam"))
	assert.Equal(t, []string{"paracetamol", "ibuprofen"}, []string{tables.Interactions()[0].DrugA, tables.Interactions()[1].DrugA})
}

func TestNew_DerivesInteractionCategory(t *testing.T) {
	tables, err := New(validDocument())
	require.NoError(t, err)

	interactions := tables.Interactions()
	assert.Equal(t, domain.CategoryLiver, interactions[0].Category)
	// An explicit category is kept even when the text would not match it
	assert.Equal(t, domain.CategoryNSAID, interactions[1].Category)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *Document)
	}{
		{"empty rules", func(doc *Document) { doc.Rules = nil }},
		{"zero spacing", func(doc *Document) {
			r := doc.Rules["ibuprofen"]
			r.MinSpacingHours = 0
			doc.Rules["ibuprofen"] = r
		}},
		{"zero daily limit", func(doc *Document) {
			r := doc.Rules["ibuprofen"]
			r.MaxDailyDose = 0
			doc.Rules["ibuprofen"] = r
		}},
		{"negative organ load", func(doc *Document) {
			r := doc.Rules["ibuprofen"]
			r.KidneyLoad = -1
			doc.Rules["ibuprofen"] = r
		}},
		{"severity above ten", func(doc *Document) { doc.Interactions[0].Severity = 11 }},
		{"severity zero", func(doc *Document) { doc.Interactions[0].Severity = 0 }},
		{"empty drug", func(doc *Document) { doc.Interactions[0].DrugB = " " }},
		{"empty risk", func(doc *Document) { doc.Interactions[0].Risk = "" }},
		{"brand without ingredients", func(doc *Document) { doc.Brands["empty"] = nil }},
		{"duplicate ingredient after normalization", func(doc *Document) {
			doc.Rules["IBUPROFEN "] = doc.Rules["ibuprofen"]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)

			_, err := New(doc)
			assert.ErrorIs(t, err, ErrInvalidTables)
		})
	}
}

func TestTables_AreImmutable(t *testing.T) {
	doc := validDocument()
	tables, err := New(doc)
	require.NoError(t, err)
	before := tables.Fingerprint()

	// Mutating the source document does not leak into the tables
	doc.Brands["Crocin"][0] = "aspirin"
	assert.Equal(t, []string{"paracetamol"}, tables.Expand("crocin"))

	// Mutating returned slices does not leak either
	expanded := tables.Expand("combiflam")
	expanded[0] = "naproxen"
	interactions := tables.Interactions()
	interactions[0].Severity = 1

	assert.Equal(t, []string{"ibuprofen", "paracetamol"}, tables.Expand("combiflam"))
	assert.Equal(t, 8, tables.Interactions()[0].Severity)
	assert.Equal(t, before, tables.Fingerprint())
}

func TestTables_ExpandUnknownName(t *testing.T) {
	tables, err := New(validDocument())
	require.NoError(t, err)

	assert.Equal(t, []string{"randompill"}, tables.Expand("randompill"))
}

func TestTables_FingerprintIsStable(t *testing.T) {
	a, err := New(validDocument())
	require.NoError(t, err)
	b, err := New(validDocument())
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)

	doc := validDocument()
	doc.Interactions[0].Severity = 9
	c, err := New(doc)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestTables_DocumentRoundTrip(t *testing.T) {
	tables, err := New(validDocument())
	require.NoError(t, err)

	again, err := New(tables.Document())
	require.NoError(t, err)
	assert.Equal(t, tables.Fingerprint(), again.Fingerprint())
}

func TestDefault(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	for _, name := range []string{"paracetamol", "ibuprofen", "aspirin", "naproxen", "diclofenac", "alcohol"} {
		assert.True(t, tables.HasRule(name), name)
	}
	assert.Equal(t, []string{"paracetamol"}, tables.Expand("crocin"))
	assert.Equal(t, []string{"paracetamol"}, tables.Expand("dolo_650"))

	rule, ok := tables.Rule("paracetamol")
	require.True(t, ok)
	assert.Equal(t, 4.0, rule.MinSpacingHours)
	assert.Equal(t, 4000.0, rule.MaxDailyDose)

	// Every NSAID pair is tagged so that deduplication collapses them
	for _, entry := range tables.Interactions() {
		if strings.HasPrefix(entry.Risk, "NSAID") && !strings.Contains(entry.Risk, "kidney") {
			assert.Equal(t, domain.CategoryNSAID, entry.Category, entry.Risk)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.yaml")
	content := `
rules:
  paracetamol:
    min_spacing_hours: 4
    max_daily_dose: 4000
    single_dose_limit: 1000
    liver_load: 3
    kidney_load: 1
    stomach_risk: 1
interactions: []
brands:
  crocin: [paracetamol]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tables, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"paracetamol"}, tables.Ingredients())
	assert.Equal(t, []string{"crocin"}, tables.Brands())
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("rules:\n  x:\n    min_spacing: 4\n"))
	assert.ErrorIs(t, err, ErrInvalidTables)
}

func TestLoad_RejectsEmptyDocument(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidTables)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"Paracetamol":   "paracetamol",
		"  Crocin  ":    "crocin",
		"Paracétamol":   "paracetamol",
		"IBUPROFÈNE":    "ibuprofene",
		"dolo_650":      "dolo_650",
		"":              "",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, NormalizeName(input), input)
	}
}
