package bibtex

import (
	"reflect"
	"testing"
)

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple",
			input: "key, title = {A}, year = 2020",
			want:  []string{"key", "title = {A}", "year = 2020"},
		},
		{
			name:  "comma inside braces",
			input: "key, author = {Smith, John and Doe, Jane}",
			want:  []string{"key", "author = {Smith, John and Doe, Jane}"},
		},
		{
			name:  "comma inside quotes",
			input: `key, title = "One, two, three"`,
			want:  []string{"key", `title = "One, two, three"`},
		},
		{
			name:  "nested braces",
			input: "key, title = {Outer {inner, deeper {x, y}} tail}, year = 1",
			want:  []string{"key", "title = {Outer {inner, deeper {x, y}} tail}", "year = 1"},
		},
		{
			name:  "escaped quote does not open a span",
			input: `key, title = {M\"uller}, year = 2`,
			want:  []string{"key", `title = {M\"uller}`, "year = 2"},
		},
		{
			name:  "trailing separator dropped",
			input: "key, title = {A},\n",
			want:  []string{"key", "title = {A}"},
		},
		{
			name:  "stray close brace keeps depth at zero",
			input: "a}, b",
			want:  []string{"a}", "b"},
		},
		{
			name:  "empty",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTopLevel(tt.input, DefaultSeparator)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTopLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitTopLevel_NestedCommaDoesNotChangeCount(t *testing.T) {
	plain := SplitTopLevel("k, title = {AB}, note = \"CD\"", ',')
	nested := SplitTopLevel("k, title = {A,B}, note = \"C,D\"", ',')
	if len(plain) != len(nested) {
		t.Errorf("split count changed: %d vs %d", len(plain), len(nested))
	}
}

func TestSplitTopLevel_CustomSeparator(t *testing.T) {
	got := SplitTopLevel("a; {b; c}; d", ';')
	want := []string{"a", "{b; c}", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTopLevel() = %q, want %q", got, want)
	}
}
