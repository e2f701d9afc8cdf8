package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
	"github.com/saravanapriyaa21/take-it-right/internal/reference"
)

const (
	infantWeightKg       = 5.0
	pediatricAgeYears    = 12.0
	infantSupervisionMsg = "Infants require pediatric supervision for medication dosing."
	pediatricWeightMsg   = "Weight-based dosing is required for children."
)

// InputValidator normalizes and validates raw request fields. Besides
// validation errors it raises the early pediatric conflicts.
type InputValidator struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// Validate converts a raw request into a DoseEvent. The first invalid field
// stops validation and is returned as a *domain.ValidationError; no partial
// event is produced in that case.
func (v *InputValidator) Validate(req *domain.DoseRequest) (domain.DoseEvent, []Finding, error) {
	var (
		event    domain.DoseEvent
		findings []Finding
	)

	if !domain.IsAbsent(req.Weight) {
		weight, err := parseLenientNumber(req.Weight)
		if err != nil {
			return domain.DoseEvent{}, nil, domain.NewValidationError("weight", "Invalid weight format: must be a number", string(req.Weight))
		}
		if weight <= 0 {
			return domain.DoseEvent{}, nil, domain.NewValidationError("weight", "Invalid weight value: must be positive", weight)
		}
		if weight < infantWeightKg {
			findings = append(findings, blocking(infantSupervisionMsg, 10, domain.CategoryInfant))
		}
		event.Weight = &weight
	}

	if !domain.IsAbsent(req.Age) {
		age, err := parseLenientNumber(req.Age)
		if err != nil {
			return domain.DoseEvent{}, nil, domain.NewValidationError("age", "Invalid age format: must be a number", string(req.Age))
		}
		if age < 0 {
			return domain.DoseEvent{}, nil, domain.NewValidationError("age", "Invalid age value: must be zero or positive", age)
		}
		if age < pediatricAgeYears && event.Weight == nil {
			findings = append(findings, advisory(pediatricWeightMsg, 5, ""))
		}
		event.Age = &age
	}

	dose, ok := parseStrictNumber(req.Dose)
	if !ok || dose <= 0 {
		return domain.DoseEvent{}, nil, domain.NewValidationError("dose", "Invalid dose value", string(req.Dose))
	}
	event.Dose = dose

	if domain.IsAbsent(req.DoseHistory) {
		event.DoseHistory = []float64{dose}
	} else {
		history, ok := parseHistory(req.DoseHistory)
		if !ok {
			return domain.DoseEvent{}, nil, domain.NewValidationError("dose_history", "Invalid dose_history format", string(req.DoseHistory))
		}
		event.DoseHistory = history
	}

	current, err := ParseClock(req.Time)
	if err != nil {
		return domain.DoseEvent{}, nil, domain.NewValidationError("time", "Invalid time format. Use HH:MM", req.Time)
	}
	event.Time = current

	if req.PreviousTime != "" {
		previous, err := ParseClock(req.PreviousTime)
		if err != nil {
			return domain.DoseEvent{}, nil, domain.NewValidationError("previous_time", "Invalid previous_time format. Use HH:MM", req.PreviousTime)
		}
		event.PreviousTime = &previous
	}

	event.Medicine = reference.NormalizeName(req.Medicine)
	event.OtherMeds = make([]string, 0, len(req.OtherMeds))
	for _, name := range req.OtherMeds {
		if normalized := reference.NormalizeName(name); normalized != "" {
			event.OtherMeds = append(event.OtherMeds, normalized)
		}
	}
	event.Alcohol = req.Alcohol
	event.Pregnant = req.Pregnant

	return event, findings, nil
}

// ParseClock parses a 24-hour "HH:MM" time of day.
func ParseClock(s string) (domain.ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return domain.NewClockTime(t.Hour(), t.Minute())
}

// parseStrictNumber accepts only a JSON number.
func parseStrictNumber(raw json.RawMessage) (float64, bool) {
	if domain.IsAbsent(raw) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// parseLenientNumber accepts a JSON number or a string holding one, since
// form-based clients send weight and age as text.
func parseLenientNumber(raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func parseHistory(raw json.RawMessage) ([]float64, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}

	history := make([]float64, 0, len(items))
	for _, item := range items {
		v, ok := parseStrictNumber(item)
		if !ok || v <= 0 {
			return nil, false
		}
		history = append(history, v)
	}
	return history, true
}
