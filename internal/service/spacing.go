package service

import (
	"math"
	"strconv"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

const minutesPerDay = 24 * 60

// SpacingViolation reports whether two doses taken on the same day are
// closer together than the minimum spacing.
func SpacingViolation(previous, current domain.ClockTime, minSpacingHours float64) bool {
	gap := math.Abs(float64(current-previous)) / 60
	return gap < minSpacingHours
}

// RemainingWait returns how many hours are left before the next dose is
// allowed, rounded to one decimal. A current time earlier than the previous
// one is treated as the next day.
func RemainingWait(previous, current domain.ClockTime, minSpacingHours float64) float64 {
	elapsed := int(current - previous)
	if elapsed < 0 {
		elapsed += minutesPerDay
	}
	remaining := minSpacingHours - float64(elapsed)/60
	if remaining <= 0 {
		return 0
	}
	return roundTenths(remaining)
}

// roundTenths rounds half to even on the exact binary value, which is how
// the decimal formatter rounds too.
func roundTenths(v float64) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return rounded
}
