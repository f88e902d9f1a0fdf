// Package timeunit converts Jira time figures between seconds, hours and
// man-days and formats man-day quantities for display. One man-day is a
// fixed 8 hours.
package timeunit

import (
	"fmt"
	"math"
)

// HoursPerManDay is the fixed working-day length.
const HoursPerManDay = 8.0

// round2 rounds to 2 decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// finite coerces NaN and infinities to 0 so malformed inputs never propagate.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// SecondsToHours converts raw seconds to hours, rounded to 2 decimals.
// Non-finite input yields 0.
func SecondsToHours(seconds float64) float64 {
	return round2(finite(seconds) / 3600)
}

// HoursToManDays converts hours to man-days, rounded to 2 decimals.
// Non-finite input yields 0.
func HoursToManDays(hours float64) float64 {
	return round2(finite(hours) / HoursPerManDay)
}

// FormatManDays renders a man-day quantity as a human string: "0d" for zero,
// rounded hours ("4h") below one day, and whole days plus leftover hours
// ("1d 4h") otherwise, omitting the hour part when it rounds to zero. The
// sign is taken from the original quantity.
func FormatManDays(days float64) string {
	days = finite(days)
	if days == 0 {
		return "0d"
	}

	sign := ""
	if days < 0 {
		sign = "-"
	}
	magnitude := math.Abs(days)

	if magnitude < 1 {
		hours := int(math.Round(magnitude * HoursPerManDay))
		return fmt.Sprintf("%s%dh", sign, hours)
	}

	whole := int(math.Floor(magnitude))
	leftoverHours := int(math.Round((magnitude - math.Floor(magnitude)) * HoursPerManDay))
	if leftoverHours == 0 {
		return fmt.Sprintf("%s%dd", sign, whole)
	}
	return fmt.Sprintf("%s%dd %dh", sign, whole, leftoverHours)
}
