// Package status maps free-text Jira workflow status names onto the four
// weekly report sections. Matching is case- and accent-insensitive so that
// English and French workflow names ("Done", "Terminé", "termine") land in
// the same section.
package status

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Section is one of the four weekly report buckets.
type Section int

const (
	// LastWeek holds work that is done.
	LastWeek Section = iota
	// CurrentWeek holds work in progress.
	CurrentWeek
	// NextWeek holds work that is ready to start.
	NextWeek
	// Later holds everything else (blocked, unknown statuses, ...).
	Later
)

// String returns the section's JSON/report column name.
func (s Section) String() string {
	switch s {
	case LastWeek:
		return "lastWeek"
	case CurrentWeek:
		return "currentWeek"
	case NextWeek:
		return "nextWeek"
	default:
		return "later"
	}
}

// Workflow vocabularies, English and French. Matching is substring-based on
// the normalized status name, tested in this order: done, then in-progress,
// then to-do; anything unmatched falls through to Later.
var (
	doneVocabulary = []string{
		"done", "closed", "resolved", "terminé", "fini", "complete", "résolu",
	}
	inProgressVocabulary = []string{
		"in progress", "in development", "testing", "en cours",
		"en développement", "en test", "en revue", "code review", "review",
	}
	toDoVocabulary = []string{
		"to do", "open", "ready", "à faire", "à réaliser", "nouveau",
		"nouvelle", "prêt", "backlog",
	}
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalize lowercases a status name and strips combining marks so accented
// and unaccented spellings compare equal.
func normalize(name string) string {
	lowered := strings.ToLower(name)
	stripped, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		return lowered
	}
	return stripped
}

// Vocabularies are declared with their accents for readability and
// normalized once here so both sides of every comparison agree.
var (
	doneNormalized       = normalizeAll(doneVocabulary)
	inProgressNormalized = normalizeAll(inProgressVocabulary)
	toDoNormalized       = normalizeAll(toDoVocabulary)
)

func normalizeAll(vocabulary []string) []string {
	normalized := make([]string, len(vocabulary))
	for i, term := range vocabulary {
		normalized[i] = normalize(term)
	}
	return normalized
}

func matchesAny(name string, vocabulary []string) bool {
	for _, term := range vocabulary {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// Categorize maps a workflow status name to its weekly report section. It is
// pure and total: any name, including an empty one, yields a section.
func Categorize(statusName string) Section {
	name := normalize(statusName)
	switch {
	case matchesAny(name, doneNormalized):
		return LastWeek
	case matchesAny(name, inProgressNormalized):
		return CurrentWeek
	case matchesAny(name, toDoNormalized):
		return NextWeek
	default:
		return Later
	}
}
