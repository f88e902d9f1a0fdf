package fields

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"
)

// DefaultFallback is the display string used when a value is absent or
// unrenderable.
const DefaultFallback = "-"

// Options controls how multi-valued fields are rendered.
type Options struct {
	// MultiValue is one of "join", "first" or "all"; anything else behaves
	// like "join"
	MultiValue string

	// Separator joins elements under the "join" policy (default ", ")
	Separator string

	// Fallback replaces absent or unrenderable values (default "-")
	Fallback string
}

func (o Options) withDefaults() Options {
	if o.Separator == "" {
		o.Separator = ", "
	}
	if o.Fallback == "" {
		o.Fallback = DefaultFallback
	}
	return o
}

// Formatted is the result of formatting a field value: either a single
// scalar string, or an expanded list of strings when the "all" policy fans a
// multi-valued field out into one value per element. Callers branch on
// Expanded instead of type-testing a raw return value.
type Formatted struct {
	scalar   string
	expanded []string
}

// Scalar returns the single display string. For an expanded value it returns
// the first element so that scalar-only callers still get a usable string.
func (f Formatted) Scalar() string {
	if f.expanded != nil {
		return f.expanded[0]
	}
	return f.scalar
}

// Expanded reports the fanned-out values and whether the result is expanded.
func (f Formatted) Expanded() ([]string, bool) {
	return f.expanded, f.expanded != nil
}

// Join collapses the value into one string, joining expanded elements with
// the given separator.
func (f Formatted) Join(separator string) string {
	if f.expanded == nil {
		return f.scalar
	}
	joined := ""
	for i, v := range f.expanded {
		if i > 0 {
			joined += separator
		}
		joined += v
	}
	return joined
}

func scalar(s string) Formatted { return Formatted{scalar: s} }

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Format converts a resolved raw value into its display form. It is total:
// every input produces a Formatted result and it never panics. nil yields the
// fallback; arrays follow the multi-value policy; objects are probed for a
// display field; ISO-dated strings are rendered as dates.
func Format(value any, opts Options) Formatted {
	opts = opts.withDefaults()

	if value == nil {
		return scalar(opts.Fallback)
	}

	switch v := value.(type) {
	case []any:
		return formatArray(v, opts)
	case map[string]any:
		return scalar(formatObject(v, opts))
	case string:
		return scalar(formatString(v))
	case bool:
		if v {
			return scalar("Yes")
		}
		return scalar("No")
	case float64:
		return scalar(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		return scalar(strconv.Itoa(v))
	case int64:
		return scalar(strconv.FormatInt(v, 10))
	case json.Number:
		return scalar(v.String())
	default:
		return scalar(opts.Fallback)
	}
}

// formatArray applies the multi-value policy. Elements that format to the
// fallback are dropped under "join" and "all"; an array left with nothing to
// show degrades to the fallback scalar.
func formatArray(values []any, opts Options) Formatted {
	if len(values) == 0 {
		return scalar(opts.Fallback)
	}

	switch opts.MultiValue {
	case "first":
		return Format(values[0], opts)
	case "all":
		expanded := make([]string, 0, len(values))
		for _, v := range values {
			s := Format(v, opts).Scalar()
			if s == opts.Fallback {
				continue
			}
			expanded = append(expanded, s)
		}
		if len(expanded) == 0 {
			return scalar(opts.Fallback)
		}
		return Formatted{expanded: expanded}
	default: // join
		joined := ""
		for _, v := range values {
			s := Format(v, opts).Scalar()
			if s == opts.Fallback {
				continue
			}
			if joined != "" {
				joined += opts.Separator
			}
			joined += s
		}
		if joined == "" {
			return scalar(opts.Fallback)
		}
		return scalar(joined)
	}
}

// formatObject probes well-known display fields in priority order and falls
// back to a JSON rendering of the whole object.
func formatObject(obj map[string]any, opts Options) string {
	for _, probe := range []string{"displayName", "name", "key", "summary"} {
		if v, ok := obj[probe]; ok && v != nil {
			return Format(v, opts).Scalar()
		}
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return opts.Fallback
	}
	return string(data)
}

// formatString renders ISO-dated strings (YYYY-MM-DD prefix) as a date and
// leaves everything else unchanged.
func formatString(s string) string {
	if !isoDatePrefix.MatchString(s) {
		return s
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}
