package domain

import (
	"math"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  apple  ", want: "apple"},
		{name: "case preserved", input: "Apple", want: "Apple"},
		{name: "compress multiple spaces", input: "give   up", want: "give up"},
		{name: "chinese preserved", input: " 苹果 ", want: "苹果"},
		{name: "hyphens preserved", input: "well-known", want: "well-known"},
		{name: "apostrophes preserved", input: "don't", want: "don't"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "tabs and spaces", input: "\t apple \t", want: "apple"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanOptional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{name: "plain value", input: "ˈæpl", want: ptr("ˈæpl")},
		{name: "trimmed", input: "  an apple a day  ", want: ptr("an apple a day")},
		{name: "empty", input: "", want: nil},
		{name: "blank", input: "   ", want: nil},
		{name: "NaN token", input: "NaN", want: nil},
		{name: "undefined token", input: "undefined", want: nil},
		{name: "null token", input: "null", want: nil},
		{name: "NaN inside text kept", input: "NaN banana", want: ptr("NaN banana")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CleanOptional(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("CleanOptional(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("CleanOptional(%q) = %q, want %q", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestOptionalFromAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		want  *string
	}{
		{name: "string", input: "香蕉", want: ptr("香蕉")},
		{name: "nil", input: nil, want: nil},
		{name: "junk string", input: "undefined", want: nil},
		{name: "finite number", input: float64(3), want: ptr("3")},
		{name: "fractional number", input: 2.5, want: ptr("2.5")},
		{name: "NaN", input: math.NaN(), want: nil},
		{name: "positive infinity", input: math.Inf(1), want: nil},
		{name: "negative infinity", input: math.Inf(-1), want: nil},
		{name: "bool", input: true, want: ptr("true")},
		{name: "unsupported type", input: []any{"x"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := OptionalFromAny(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("OptionalFromAny(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("OptionalFromAny(%v) = %q, want %q", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestStringFromAny(t *testing.T) {
	t.Parallel()

	if got := StringFromAny("  apple "); got != "apple" {
		t.Errorf("StringFromAny trimmed = %q, want %q", got, "apple")
	}
	if got := StringFromAny(nil); got != "" {
		t.Errorf("StringFromAny(nil) = %q, want empty", got)
	}
	if got := StringFromAny("NaN"); got != "" {
		t.Errorf("StringFromAny(NaN) = %q, want empty", got)
	}
}

func ptr(s string) *string { return &s }
