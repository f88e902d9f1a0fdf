// Package models defines data structures shared across the application.
package models

// Issue is a raw Jira issue payload as decoded from JSON. The field surface
// of a Jira issue is open (customfield_* keys of arbitrary shape), so the
// payload is kept as a generic map and addressed through field paths instead
// of a fixed struct.
type Issue map[string]any

// Key returns the issue key (e.g. "KAN-2"), or an empty string when absent.
func (i Issue) Key() string {
	key, _ := i["key"].(string)
	return key
}

// Fields returns the nested "fields" object, or nil when absent.
func (i Issue) Fields() map[string]any {
	fields, _ := i["fields"].(map[string]any)
	return fields
}

// Multi-value handling policies accepted by FieldMappingConfig.
const (
	// MultiValueJoin formats every element and joins them with the separator.
	MultiValueJoin = "join"
	// MultiValueFirst formats only the first element.
	MultiValueFirst = "first"
	// MultiValueAll expands a multi-valued field into one value per element.
	MultiValueAll = "all"
)

// FieldMappingConfig maps issue fields onto the fixed report columns.
type FieldMappingConfig struct {
	// CategoryField is the path resolved against a child's parent sub-object
	// to derive the report row category
	CategoryField string `json:"categoryField"`

	// InitiativeField is the path used to sub-group children within a parent
	// group (default: issue labels)
	InitiativeField string `json:"initiativeField"`

	// IssueItemField is the path rendered into the weekly section cells
	IssueItemField string `json:"issueItemField"`

	// MultiValueHandling is one of "join", "first" or "all"
	MultiValueHandling string `json:"multiValueHandling"`

	// MultiValueSeparator joins multi-valued fields under the "join" policy
	MultiValueSeparator string `json:"multiValueSeparator"`
}

// IssueSelectionConfig controls which issues feed the report.
type IssueSelectionConfig struct {
	// MaxDepth is the accepted child-fetch depth
	MaxDepth int `json:"maxDepth"`

	// IncludeNestedChildren is accepted but not acted upon; children of
	// children are never expanded
	IncludeNestedChildren bool `json:"includeNestedChildren"`

	// ParentGroupingField is the path whose value groups children together
	ParentGroupingField string `json:"parentGroupingField"`
}

// ReportTemplate is a named, per-user report configuration.
type ReportTemplate struct {
	// ID is an opaque identifier, unique across all users and immutable
	ID string `json:"id"`

	// Name is the template's display name; "Default" is protected
	Name string `json:"name"`

	// Description is an optional free-text description
	Description string `json:"description,omitempty"`

	// UserID is the owning user; comparisons are case-insensitive
	UserID string `json:"userId"`

	// IsShared makes the template readable (never writable) by any user
	IsShared bool `json:"isShared"`

	// FieldMapping maps issue fields onto report columns
	FieldMapping FieldMappingConfig `json:"fieldMapping"`

	// IssueSelection controls issue grouping and selection
	IssueSelection IssueSelectionConfig `json:"issueSelection"`

	// CreatedAt is the ISO-8601 creation timestamp
	CreatedAt string `json:"createdAt"`

	// UpdatedAt is the ISO-8601 timestamp of the last mutation
	UpdatedAt string `json:"updatedAt"`
}

// ReportRow is one line of the weekly status report: a (category, initiative)
// pair with the member issues spread across the four weekly sections.
type ReportRow struct {
	Category    string   `json:"category"`
	Initiative  string   `json:"initiative"`
	LastWeek    []string `json:"lastWeek"`
	CurrentWeek []string `json:"currentWeek"`
	NextWeek    []string `json:"nextWeek"`
	Later       []string `json:"later"`
}

// TimesheetEntry carries one child issue's time figures. Every quantity is
// exposed in seconds, hours and man-days in parallel for backward
// compatibility with existing consumers.
type TimesheetEntry struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`

	// Status is copied verbatim from the issue's workflow status name
	Status   string `json:"status"`
	Assignee string `json:"assignee,omitempty"`

	TimeSpentSeconds float64 `json:"timeSpentSeconds"`
	TimeSpentHours   float64 `json:"timeSpentHours"`
	TimeSpentManDays float64 `json:"timeSpentManDays"`

	TimeEstimateSeconds float64 `json:"timeEstimateSeconds"`
	TimeEstimateHours   float64 `json:"timeEstimateHours"`
	TimeEstimateManDays float64 `json:"timeEstimateManDays"`

	RemainingHours   float64 `json:"remainingHours"`
	RemainingManDays float64 `json:"remainingManDays"`

	// TimeSpentFormatted is the human man-day rendering, e.g. "1d 4h"
	TimeSpentFormatted string `json:"timeSpentFormatted"`
}

// TimesheetSummary aggregates time figures for a parent issue and its
// children. Parent figures prefer the aggregate* Jira fields; totals
// accumulate from each child's own (non-aggregate) fields.
type TimesheetSummary struct {
	ParentKey     string `json:"parentKey"`
	ParentSummary string `json:"parentSummary"`

	ParentTimeSpentSeconds float64 `json:"parentTimeSpentSeconds"`
	ParentTimeSpentHours   float64 `json:"parentTimeSpentHours"`
	ParentTimeSpentManDays float64 `json:"parentTimeSpentManDays"`

	ParentTimeEstimateSeconds float64 `json:"parentTimeEstimateSeconds"`
	ParentTimeEstimateHours   float64 `json:"parentTimeEstimateHours"`
	ParentTimeEstimateManDays float64 `json:"parentTimeEstimateManDays"`

	Entries []TimesheetEntry `json:"entries"`

	TotalTimeSpentSeconds float64 `json:"totalTimeSpentSeconds"`
	TotalTimeSpentHours   float64 `json:"totalTimeSpentHours"`
	TotalTimeSpentManDays float64 `json:"totalTimeSpentManDays"`

	TotalTimeEstimateSeconds float64 `json:"totalTimeEstimateSeconds"`
	TotalTimeEstimateHours   float64 `json:"totalTimeEstimateHours"`
	TotalTimeEstimateManDays float64 `json:"totalTimeEstimateManDays"`

	RemainingHours   float64 `json:"remainingHours"`
	RemainingManDays float64 `json:"remainingManDays"`

	TotalTimeSpentFormatted    string `json:"totalTimeSpentFormatted"`
	TotalTimeEstimateFormatted string `json:"totalTimeEstimateFormatted"`
	RemainingFormatted         string `json:"remainingFormatted"`
}
