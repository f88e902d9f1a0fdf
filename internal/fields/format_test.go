package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatScalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil uses fallback", value: nil, want: "-"},
		{name: "string unchanged", value: "hello", want: "hello"},
		{name: "boolean true", value: true, want: "Yes"},
		{name: "boolean false", value: false, want: "No"},
		{name: "integer number", value: float64(8), want: "8"},
		{name: "fractional number", value: float64(0.5), want: "0.5"},
		{name: "iso date string", value: "2026-03-15", want: "Mar 15, 2026"},
		{name: "iso datetime keeps date part", value: "2026-03-15T10:04:00.000+0100", want: "Mar 15, 2026"},
		{name: "invalid iso-looking date left alone", value: "2026-13-45", want: "2026-13-45"},
		{name: "non-date string with digits", value: "1234 widgets", want: "1234 widgets"},
		{name: "unsupported type uses fallback", value: make(chan int), want: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.value, Options{})
			_, expanded := got.Expanded()
			assert.False(t, expanded)
			assert.Equal(t, tt.want, got.Scalar())
		})
	}
}

func TestFormatObjectProbing(t *testing.T) {
	tests := []struct {
		name  string
		value map[string]any
		want  string
	}{
		{
			name:  "displayName wins",
			value: map[string]any{"displayName": "Ada", "name": "ada"},
			want:  "Ada",
		},
		{
			name:  "name before key",
			value: map[string]any{"name": "Done", "key": "KAN-9"},
			want:  "Done",
		},
		{
			name:  "key before summary",
			value: map[string]any{"key": "KAN-9", "summary": "s"},
			want:  "KAN-9",
		},
		{
			name:  "summary probed last",
			value: map[string]any{"summary": "Fix the build"},
			want:  "Fix the build",
		},
		{
			name:  "no probe field serializes",
			value: map[string]any{"value": "Platform"},
			want:  `{"value":"Platform"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.value, Options{}).Scalar())
		})
	}
}

func TestFormatArrayJoin(t *testing.T) {
	value := []any{"Alpha", nil, "Beta"}

	got := Format(value, Options{MultiValue: "join", Separator: ", "})
	_, expanded := got.Expanded()
	assert.False(t, expanded)
	// nil elements format to the fallback and are dropped before joining.
	assert.Equal(t, "Alpha, Beta", got.Scalar())
}

func TestFormatArrayJoinIsDefaultPolicy(t *testing.T) {
	got := Format([]any{"a", "b"}, Options{})
	assert.Equal(t, "a, b", got.Scalar())
}

func TestFormatArrayCustomSeparator(t *testing.T) {
	got := Format([]any{"a", "b"}, Options{Separator: " | "})
	assert.Equal(t, "a | b", got.Scalar())
}

func TestFormatArrayFirst(t *testing.T) {
	got := Format([]any{"Alpha", "Beta"}, Options{MultiValue: "first"})
	assert.Equal(t, "Alpha", got.Scalar())
}

func TestFormatArrayAllExpands(t *testing.T) {
	got := Format([]any{"Alpha", nil, "Beta"}, Options{MultiValue: "all"})

	values, expanded := got.Expanded()
	assert.True(t, expanded)
	assert.Equal(t, []string{"Alpha", "Beta"}, values)
	assert.Equal(t, "Alpha", got.Scalar())
	assert.Equal(t, "Alpha/Beta", got.Join("/"))
}

func TestFormatEmptyArray(t *testing.T) {
	for _, policy := range []string{"join", "first", "all"} {
		got := Format([]any{}, Options{MultiValue: policy})
		_, expanded := got.Expanded()
		assert.False(t, expanded, "policy %s", policy)
		assert.Equal(t, "-", got.Scalar(), "policy %s", policy)
	}
}

func TestFormatArrayAllNilElements(t *testing.T) {
	// Everything dropped: the expansion degrades to the scalar fallback.
	got := Format([]any{nil, nil}, Options{MultiValue: "all"})
	_, expanded := got.Expanded()
	assert.False(t, expanded)
	assert.Equal(t, "-", got.Scalar())
}

func TestFormatArrayOfObjects(t *testing.T) {
	value := []any{
		map[string]any{"name": "Backend"},
		map[string]any{"name": "Frontend"},
	}
	got := Format(value, Options{})
	assert.Equal(t, "Backend, Frontend", got.Scalar())
}

func TestFormatCustomFallback(t *testing.T) {
	got := Format(nil, Options{Fallback: "No value"})
	assert.Equal(t, "No value", got.Scalar())
}
