package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekrep/weekrep/pkg/models"
)

func defaultTemplate() models.ReportTemplate {
	return models.ReportTemplate{
		ID:     "tpl-test",
		Name:   "Default",
		UserID: "alice",
		FieldMapping: models.FieldMappingConfig{
			CategoryField:       "status.name",
			InitiativeField:     "labels",
			IssueItemField:      "summary",
			MultiValueHandling:  models.MultiValueJoin,
			MultiValueSeparator: ", ",
		},
		IssueSelection: models.IssueSelectionConfig{
			MaxDepth:            1,
			ParentGroupingField: "parent.key",
		},
	}
}

func childIssue(key, summary, statusName string, labels []any, parentKey string, timespent, timeestimate float64) models.Issue {
	fields := map[string]any{
		"summary": summary,
		"status":  map[string]any{"name": statusName},
		"labels":  labels,
	}
	if parentKey != "" {
		fields["parent"] = map[string]any{
			"key":    parentKey,
			"fields": map[string]any{"summary": "Parent summary"},
		}
	}
	if timespent > 0 {
		fields["timespent"] = timespent
	}
	if timeestimate > 0 {
		fields["timeestimate"] = timeestimate
	}
	return models.Issue{"key": key, "fields": fields}
}

func TestGenerateEndToEndScenario(t *testing.T) {
	children := []models.Issue{
		childIssue("KAN-2", "Build the importer", "Done", []any{"Alpha"}, "KAN-1", 28800, 28800),
		childIssue("KAN-3", "Wire the exporter", "In Progress", []any{"Alpha"}, "KAN-1", 14400, 28800),
	}

	rows := Generate(children, defaultTemplate())

	require.Len(t, rows, 1)
	row := rows[0]
	// The scenario's partial parent sub-object has no status, so the
	// category falls back.
	assert.Equal(t, Uncategorized, row.Category)
	assert.Equal(t, "Alpha", row.Initiative)
	assert.Equal(t, []string{"Build the importer"}, row.LastWeek)
	assert.Equal(t, []string{"Wire the exporter"}, row.CurrentWeek)
	assert.Empty(t, row.NextWeek)
	assert.Empty(t, row.Later)
}

func TestGenerateIsDeterministic(t *testing.T) {
	children := []models.Issue{
		childIssue("KAN-2", "a", "Done", []any{"Alpha", "Beta"}, "KAN-1", 0, 0),
		childIssue("KAN-3", "b", "To Do", []any{"Beta"}, "KAN-1", 0, 0),
		childIssue("KAN-4", "c", "Blocked", []any{"Gamma"}, "KAN-9", 0, 0),
	}
	template := defaultTemplate()

	first := Generate(children, template)
	second := Generate(children, template)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("report output not deterministic (-first +second):\n%s", diff)
	}
}

func TestGenerateGroupingPreservesFirstSeenOrder(t *testing.T) {
	children := []models.Issue{
		childIssue("KAN-5", "e1", "Done", []any{"X"}, "EPIC-2", 0, 0),
		childIssue("KAN-6", "e2", "Done", []any{"Y"}, "EPIC-1", 0, 0),
		childIssue("KAN-7", "e3", "Done", []any{"X"}, "EPIC-2", 0, 0),
	}

	rows := Generate(children, defaultTemplate())

	// EPIC-2 was seen first, so its rows come first.
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"e1", "e3"}, rows[0].LastWeek)
	assert.Equal(t, []string{"e2"}, rows[1].LastWeek)
}

func TestGenerateUnparentedFallbacks(t *testing.T) {
	orphan := models.Issue{
		"key": "KAN-8",
		"fields": map[string]any{
			"status": map[string]any{"name": "Open"},
		},
	}

	rows := Generate([]models.Issue{orphan}, defaultTemplate())

	require.Len(t, rows, 1)
	assert.Equal(t, Uncategorized, rows[0].Category)
	assert.Equal(t, NoInitiative, rows[0].Initiative)
	// No summary either: the issue key stands in for the item.
	assert.Equal(t, []string{"KAN-8"}, rows[0].NextWeek)
}

func TestGenerateCategoryFromParentSubObject(t *testing.T) {
	child := childIssue("KAN-2", "s", "Done", []any{"Alpha"}, "KAN-1", 0, 0)
	// Give the parent sub-object a resolvable status.
	fields := child.Fields()
	parent := fields["parent"].(map[string]any)
	parent["fields"].(map[string]any)["status"] = map[string]any{"name": "Epic"}

	rows := Generate([]models.Issue{child}, defaultTemplate())

	require.Len(t, rows, 1)
	assert.Equal(t, "Epic", rows[0].Category)
}

func TestGenerateAllPolicyFansOut(t *testing.T) {
	template := defaultTemplate()
	template.FieldMapping.MultiValueHandling = models.MultiValueAll

	children := []models.Issue{
		childIssue("KAN-2", "shared work", "Done", []any{"Alpha", "Beta"}, "KAN-1", 0, 0),
		childIssue("KAN-3", "beta work", "In Progress", []any{"Beta"}, "KAN-1", 0, 0),
	}

	rows := Generate(children, template)

	// KAN-2 appears under both Alpha and Beta.
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].Initiative)
	assert.Equal(t, []string{"shared work"}, rows[0].LastWeek)
	assert.Equal(t, "Beta", rows[1].Initiative)
	assert.Equal(t, []string{"shared work"}, rows[1].LastWeek)
	assert.Equal(t, []string{"beta work"}, rows[1].CurrentWeek)
}

func TestGenerateFirstPolicy(t *testing.T) {
	template := defaultTemplate()
	template.FieldMapping.MultiValueHandling = models.MultiValueFirst

	children := []models.Issue{
		childIssue("KAN-2", "s", "Done", []any{"Alpha", "Beta"}, "KAN-1", 0, 0),
	}

	rows := Generate(children, template)

	require.Len(t, rows, 1)
	assert.Equal(t, "Alpha", rows[0].Initiative)
}

func TestGenerateMalformedTemplateYieldsFallbacks(t *testing.T) {
	template := defaultTemplate()
	template.FieldMapping.CategoryField = "does.not.exist"
	template.FieldMapping.InitiativeField = "nothing[3].here"
	template.FieldMapping.IssueItemField = "also.missing"

	children := []models.Issue{
		childIssue("KAN-2", "s", "Done", []any{"Alpha"}, "KAN-1", 0, 0),
	}

	rows := Generate(children, template)

	require.Len(t, rows, 1)
	assert.Equal(t, Uncategorized, rows[0].Category)
	assert.Equal(t, NoInitiative, rows[0].Initiative)
	assert.Equal(t, []string{"KAN-2"}, rows[0].LastWeek)
}

func TestGenerateNestedChildrenSelectionIsPassThrough(t *testing.T) {
	// includeNestedChildren/maxDepth are accepted but never expand children
	// of children. This pins the pass-through so the behavior cannot drift.
	template := defaultTemplate()
	template.IssueSelection.IncludeNestedChildren = true
	template.IssueSelection.MaxDepth = 5

	children := []models.Issue{
		childIssue("KAN-2", "s", "Done", []any{"Alpha"}, "KAN-1", 0, 0),
	}

	rows := Generate(children, template)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"s"}, rows[0].LastWeek)
}

func TestGenerateEmptyInput(t *testing.T) {
	rows := Generate(nil, defaultTemplate())
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}
