package service

import (
	"fmt"
)

const (
	paracetamolSingleMgPerKg        = 20.0
	paracetamolSingleCautionMgPerKg = 15.0
	paracetamolDailyMgPerKg         = 75.0
	paracetamolDailyCautionMgPerKg  = 60.0
)

// CheckWeightDosing applies the paracetamol mg/kg limits to the single dose
// and to the day's total. It returns the single-dose mg/kg, or zero when the
// check does not apply.
func CheckWeightDosing(primary string, dose, totalDose float64, weight *float64) ([]Finding, float64) {
	if primary != paracetamol || weight == nil || *weight <= 0 {
		return nil, 0
	}

	var findings []Finding

	perKg := dose / *weight
	switch {
	case perKg > paracetamolSingleMgPerKg:
		findings = append(findings, blocking(
			fmt.Sprintf("Paracetamol dose too high for weight (%.1fmg/kg > 20mg/kg)", perKg), 10, ""))
	case perKg > paracetamolSingleCautionMgPerKg:
		findings = append(findings, advisory(
			fmt.Sprintf("Paracetamol dose requires caution for weight (%.1fmg/kg > 15mg/kg)", perKg), 4, ""))
	}

	dailyPerKg := totalDose / *weight
	switch {
	case dailyPerKg > paracetamolDailyMgPerKg:
		findings = append(findings, blocking(
			fmt.Sprintf("Critical daily paracetamol accumulation (%.1fmg/kg > 75mg/kg)", dailyPerKg), 10, ""))
	case dailyPerKg > paracetamolDailyCautionMgPerKg:
		findings = append(findings, advisory(
			fmt.Sprintf("High daily paracetamol accumulation (%.1fmg/kg > 60mg/kg)", dailyPerKg), 4, ""))
	}

	return findings, perKg
}
