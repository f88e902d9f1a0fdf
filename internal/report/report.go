// Package report turns a flat list of child Jira issues into weekly status
// report rows and timesheet aggregates, driven by a report template's field
// mapping.
package report

import (
	"github.com/weekrep/weekrep/internal/fields"
	"github.com/weekrep/weekrep/internal/status"
	"github.com/weekrep/weekrep/pkg/models"
)

// Sentinel display values for issues the template cannot place.
const (
	// UnparentedGroup keys issues whose grouping field resolves to nothing.
	UnparentedGroup = "UNPARENTED"
	// Uncategorized is the category when a group has no usable parent field.
	Uncategorized = "Uncategorized"
	// NoInitiative is the sub-group key when the initiative field is empty.
	NoInitiative = "No value"
)

// issueGroup preserves first-seen ordering of group keys and of the members
// within each group.
type issueGroup struct {
	keys    []string
	members map[string][]models.Issue
}

func newIssueGroup() *issueGroup {
	return &issueGroup{members: make(map[string][]models.Issue)}
}

func (g *issueGroup) add(key string, issue models.Issue) {
	if _, seen := g.members[key]; !seen {
		g.keys = append(g.keys, key)
	}
	g.members[key] = append(g.members[key], issue)
}

// resolveSelection applies the template's issue-selection settings to the
// child list. Expansion of nested children (includeNestedChildren/maxDepth)
// is accepted but intentionally unimplemented: the list passes through
// unchanged, matching the existing behavior consumers depend on.
func resolveSelection(children []models.Issue, _ models.IssueSelectionConfig) []models.Issue {
	return children
}

// Generate assembles the weekly report rows for a set of child issues. It
// never fails: a template whose field paths resolve to nothing produces rows
// built from fallback strings, so user-authored templates degrade gracefully
// instead of erroring.
//
// Output order is the traversal order of (parent group, initiative
// sub-group) with insertion-ordered grouping, so identical inputs produce
// identical output.
func Generate(children []models.Issue, template models.ReportTemplate) []models.ReportRow {
	children = resolveSelection(children, template.IssueSelection)

	mapping := template.FieldMapping
	separator := mapping.MultiValueSeparator
	if separator == "" {
		separator = ", "
	}
	formatOpts := fields.Options{
		MultiValue: mapping.MultiValueHandling,
		Separator:  separator,
	}

	// Group children by the parent grouping field.
	byParent := newIssueGroup()
	for _, child := range children {
		value := fields.Resolve(child, template.IssueSelection.ParentGroupingField)
		opts := formatOpts
		opts.Fallback = UnparentedGroup
		byParent.add(fields.Format(value, opts).Join(opts.Separator), child)
	}

	rows := []models.ReportRow{}
	for _, groupKey := range byParent.keys {
		members := byParent.members[groupKey]
		category := deriveCategory(members[0], mapping, formatOpts)

		// Sub-group by the formatted initiative value. Under the "all"
		// policy a child fans out into one sub-group per value.
		byInitiative := newIssueGroup()
		for _, child := range members {
			for _, initiative := range initiativeKeys(child, mapping, formatOpts) {
				byInitiative.add(initiative, child)
			}
		}

		for _, initiative := range byInitiative.keys {
			rows = append(rows, buildRow(category, initiative, byInitiative.members[initiative], mapping, formatOpts))
		}
	}
	return rows
}

// deriveCategory resolves the category field against the first child's
// parent sub-object. Missing parents and unresolvable paths both fall back
// to Uncategorized.
func deriveCategory(child models.Issue, mapping models.FieldMappingConfig, opts fields.Options) string {
	parent, ok := fields.Resolve(child, "fields.parent").(map[string]any)
	if !ok {
		return Uncategorized
	}
	value := fields.Resolve(parent, mapping.CategoryField)
	opts.Fallback = Uncategorized
	return fields.Format(value, opts).Join(opts.Separator)
}

// initiativeKeys returns the sub-group key(s) a child belongs to: one per
// expanded value under the "all" policy, a single key otherwise.
func initiativeKeys(child models.Issue, mapping models.FieldMappingConfig, opts fields.Options) []string {
	value := fields.Resolve(child, mapping.InitiativeField)
	opts.Fallback = NoInitiative
	formatted := fields.Format(value, opts)
	if expanded, ok := formatted.Expanded(); ok {
		return expanded
	}
	return []string{formatted.Scalar()}
}

// buildRow places each member issue into the weekly section matching its
// workflow status, rendered through the issue item field. An issue whose
// item field resolves to nothing is represented by its own key.
func buildRow(category, initiative string, members []models.Issue, mapping models.FieldMappingConfig, opts fields.Options) models.ReportRow {
	row := models.ReportRow{
		Category:    category,
		Initiative:  initiative,
		LastWeek:    []string{},
		CurrentWeek: []string{},
		NextWeek:    []string{},
		Later:       []string{},
	}

	for _, issue := range members {
		statusName, _ := fields.Resolve(issue, "fields.status.name").(string)
		item := formatItem(issue, mapping, opts)

		switch status.Categorize(statusName) {
		case status.LastWeek:
			row.LastWeek = append(row.LastWeek, item)
		case status.CurrentWeek:
			row.CurrentWeek = append(row.CurrentWeek, item)
		case status.NextWeek:
			row.NextWeek = append(row.NextWeek, item)
		default:
			row.Later = append(row.Later, item)
		}
	}
	return row
}

func formatItem(issue models.Issue, mapping models.FieldMappingConfig, opts fields.Options) string {
	value := fields.Resolve(issue, mapping.IssueItemField)
	opts.Fallback = issue.Key()
	// A section cell is a single string, so an expanded item collapses back
	// into a joined value.
	return fields.Format(value, opts).Join(opts.Separator)
}
