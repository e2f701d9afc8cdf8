package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRiskLevelConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    RiskLevel
		expected string
	}{
		{"Safe", RiskSafe, "SAFE"},
		{"Caution", RiskCaution, "CAUTION"},
		{"High risk", RiskHigh, "HIGH RISK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
			if !tt.value.IsValid() {
				t.Errorf("Expected %s to be valid", tt.value)
			}
		})
	}

	if RiskLevel("UNKNOWN").IsValid() {
		t.Error("Expected UNKNOWN to be invalid")
	}
}

func TestParseRiskLevel(t *testing.T) {
	level, err := ParseRiskLevel(" high risk ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if level != RiskHigh {
		t.Errorf("Expected %s, got %s", RiskHigh, level)
	}

	if _, err := ParseRiskLevel("danger"); !errors.Is(err, ErrInvalidRiskLevel) {
		t.Errorf("Expected ErrInvalidRiskLevel, got %v", err)
	}
}

func TestCategoryFromText(t *testing.T) {
	tests := []struct {
		text     string
		expected Category
	}{
		{"Alcohol with paracetamol increases liver damage risk", CategoryLiver},
		{"Severe LIVER stress detected", CategoryLiver},
		{"NSAID combination increases kidney injury risk", CategoryKidney},
		{"Hidden duplicate ibuprofen detected across different brands", CategoryDuplicate},
		{"NSAID stacking", CategoryNSAID},
		{"Alcohol with cetirizine increases drowsiness", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := CategoryFromText(tt.text); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestConflictKey(t *testing.T) {
	tagged := NewConflict("Severe liver stress detected", 5, CategoryLiver)
	if tagged.Key() != "liver_issue" {
		t.Errorf("Expected liver_issue, got %s", tagged.Key())
	}

	literal := NewConflict("Multiple doses of Paracetamol detected", 2, "")
	if literal.Key() != "multiple doses of paracetamol detected" {
		t.Errorf("Expected lower-cased text key, got %s", literal.Key())
	}
}

func TestConflictValidate(t *testing.T) {
	if err := NewConflict("x", 0, "").Validate(); !errors.Is(err, ErrInvalidSeverity) {
		t.Errorf("Expected ErrInvalidSeverity for 0, got %v", err)
	}
	if err := NewConflict("x", 11, "").Validate(); !errors.Is(err, ErrInvalidSeverity) {
		t.Errorf("Expected ErrInvalidSeverity for 11, got %v", err)
	}
	if err := NewConflict("x", 10, "").Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestConflictJSONOmitsCategory(t *testing.T) {
	data, err := json.Marshal(NewConflict("NSAID stacking", 4, CategoryNSAID))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != `{"risk":"NSAID stacking","severity":4}` {
		t.Errorf("Unexpected JSON: %s", data)
	}
}

func TestClockTime(t *testing.T) {
	clock, err := NewClockTime(14, 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if clock.String() != "14:05" {
		t.Errorf("Expected 14:05, got %s", clock.String())
	}
	if clock.Hours() != 14+5.0/60 {
		t.Errorf("Unexpected hours %v", clock.Hours())
	}

	if _, err := NewClockTime(24, 0); !errors.Is(err, ErrInvalidClockValue) {
		t.Errorf("Expected ErrInvalidClockValue, got %v", err)
	}
}

func TestRequestHelpers(t *testing.T) {
	if string(Number(500)) != "500" {
		t.Errorf("Expected 500, got %s", Number(500))
	}
	if string(Numbers(500, 1000.5)) != "[500,1000.5]" {
		t.Errorf("Unexpected array %s", Numbers(500, 1000.5))
	}
	if !IsAbsent(nil) || !IsAbsent(json.RawMessage("null")) {
		t.Error("Expected nil and null to be absent")
	}
	if IsAbsent(json.RawMessage("0")) {
		t.Error("Expected 0 to be present")
	}
}
