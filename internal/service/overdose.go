package service

import (
	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

const (
	paracetamolNearLimitRatio = 0.75
	defaultNearLimitRatio     = 0.85
	paracetamol               = "paracetamol"
)

// DoseTotals summarizes the daily dose against the primary ingredient's limits.
type DoseTotals struct {
	Total           float64
	SingleViolation bool
	DailyViolation  bool
}

// Overdose reports whether either limit is exceeded.
func (d DoseTotals) Overdose() bool {
	return d.SingleViolation || d.DailyViolation
}

// CheckOverdose sums the day's history and compares it with the limits.
func CheckOverdose(history []float64, rule domain.RuleEntry) DoseTotals {
	var totals DoseTotals
	for _, dose := range history {
		totals.Total += dose
		if dose > rule.SingleDoseLimit {
			totals.SingleViolation = true
		}
	}
	totals.DailyViolation = totals.Total > rule.MaxDailyDose
	return totals
}

// NearLimit reports whether the total is close to, but not over, the daily
// limit. Paracetamol uses a lower threshold.
func NearLimit(primary string, totals DoseTotals, maxDaily float64) bool {
	if totals.Overdose() {
		return false
	}
	ratio := defaultNearLimitRatio
	if primary == paracetamol {
		ratio = paracetamolNearLimitRatio
	}
	return totals.Total >= maxDaily*ratio
}
