package report

import (
	"encoding/json"
	"math"

	"github.com/weekrep/weekrep/internal/fields"
	"github.com/weekrep/weekrep/internal/timeunit"
	"github.com/weekrep/weekrep/pkg/models"
)

// nanGuard coerces NaN and infinities to 0. Every numeric field placed in
// the timesheet output passes through this guard so consumers can rely on
// finite numbers everywhere, even if a conversion upstream misbehaves.
func nanGuard(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// numberAt resolves a field path and coerces the value to a number.
// Anything non-numeric (absent, string, object) yields 0.
func numberAt(issue models.Issue, path string) float64 {
	switch n := fields.Resolve(issue, path).(type) {
	case float64:
		return nanGuard(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return nanGuard(f)
	default:
		return 0
	}
}

// firstNumberAt returns the value of the first path that resolves to a
// number, or 0 when none does.
func firstNumberAt(issue models.Issue, paths ...string) float64 {
	for _, path := range paths {
		if fields.Resolve(issue, path) != nil {
			return numberAt(issue, path)
		}
	}
	return 0
}

func stringAt(issue models.Issue, path string) string {
	s, _ := fields.Resolve(issue, path).(string)
	return s
}

// timeFigures derives the hour and man-day representations of a raw-seconds
// quantity.
type timeFigures struct {
	seconds float64
	hours   float64
	manDays float64
}

func figuresFromSeconds(seconds float64) timeFigures {
	hours := timeunit.SecondsToHours(seconds)
	return timeFigures{
		seconds: nanGuard(seconds),
		hours:   nanGuard(hours),
		manDays: nanGuard(timeunit.HoursToManDays(hours)),
	}
}

// Timesheet computes per-child and parent/global time aggregates. Parent
// figures prefer the aggregate* fields; child figures and the running totals
// use each child's own timespent/timeestimate. Remaining time is derived
// from the hour representation.
func Timesheet(parent models.Issue, children []models.Issue) models.TimesheetSummary {
	parentSpent := figuresFromSeconds(firstNumberAt(parent, "aggregatetimespent", "timespent"))
	parentEstimate := figuresFromSeconds(firstNumberAt(parent, "aggregatetimeestimate", "timeestimate"))

	summary := models.TimesheetSummary{
		ParentKey:     parent.Key(),
		ParentSummary: stringAt(parent, "fields.summary"),

		ParentTimeSpentSeconds: parentSpent.seconds,
		ParentTimeSpentHours:   parentSpent.hours,
		ParentTimeSpentManDays: parentSpent.manDays,

		ParentTimeEstimateSeconds: parentEstimate.seconds,
		ParentTimeEstimateHours:   parentEstimate.hours,
		ParentTimeEstimateManDays: parentEstimate.manDays,

		Entries: []models.TimesheetEntry{},
	}

	var totalSpentSeconds, totalEstimateSeconds float64
	for _, child := range children {
		spent := figuresFromSeconds(numberAt(child, "timespent"))
		estimate := figuresFromSeconds(numberAt(child, "timeestimate"))
		remainingHours := nanGuard(round2(estimate.hours - spent.hours))

		summary.Entries = append(summary.Entries, models.TimesheetEntry{
			Key:      child.Key(),
			Summary:  stringAt(child, "fields.summary"),
			Status:   stringAt(child, "fields.status.name"),
			Assignee: stringAt(child, "fields.assignee.displayName"),

			TimeSpentSeconds: spent.seconds,
			TimeSpentHours:   spent.hours,
			TimeSpentManDays: spent.manDays,

			TimeEstimateSeconds: estimate.seconds,
			TimeEstimateHours:   estimate.hours,
			TimeEstimateManDays: estimate.manDays,

			RemainingHours:   remainingHours,
			RemainingManDays: nanGuard(timeunit.HoursToManDays(remainingHours)),

			TimeSpentFormatted: timeunit.FormatManDays(spent.manDays),
		})

		totalSpentSeconds += spent.seconds
		totalEstimateSeconds += estimate.seconds
	}

	totalSpent := figuresFromSeconds(totalSpentSeconds)
	totalEstimate := figuresFromSeconds(totalEstimateSeconds)
	remainingHours := nanGuard(round2(totalEstimate.hours - totalSpent.hours))
	remainingManDays := nanGuard(timeunit.HoursToManDays(remainingHours))

	summary.TotalTimeSpentSeconds = totalSpent.seconds
	summary.TotalTimeSpentHours = totalSpent.hours
	summary.TotalTimeSpentManDays = totalSpent.manDays

	summary.TotalTimeEstimateSeconds = totalEstimate.seconds
	summary.TotalTimeEstimateHours = totalEstimate.hours
	summary.TotalTimeEstimateManDays = totalEstimate.manDays

	summary.RemainingHours = remainingHours
	summary.RemainingManDays = remainingManDays

	summary.TotalTimeSpentFormatted = timeunit.FormatManDays(totalSpent.manDays)
	summary.TotalTimeEstimateFormatted = timeunit.FormatManDays(totalEstimate.manDays)
	summary.RemainingFormatted = timeunit.FormatManDays(remainingManDays)

	return summary
}
