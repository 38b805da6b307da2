package domain

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeText prepares word text for storage and comparison:
//   - trims leading/trailing whitespace
//   - compresses runs of spaces into one
//
// Case and diacritics are preserved: word text is the caller-visible dedup key
// and the store holds mixed Chinese/Latin content.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// junk tokens produced by the spreadsheet/JS toolchain that feeds imports.
var junkTokens = map[string]bool{
	"":          true,
	"NaN":       true,
	"undefined": true,
	"null":      true,
}

// CleanOptional coerces a caller-supplied optional field to its stored form.
// Empty strings and the junk literals "NaN"/"undefined"/"null" become nil
// (SQL NULL); anything else is trimmed and kept.
func CleanOptional(s string) *string {
	s = strings.TrimSpace(s)
	if junkTokens[s] {
		return nil
	}
	return &s
}

// OptionalFromAny coerces an arbitrary decoded JSON value to an optional
// string field. Strings go through CleanOptional; finite numbers are
// formatted; NaN, infinities, nil, and unsupported types become nil.
func OptionalFromAny(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return CleanOptional(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		s := strconv.FormatFloat(t, 'f', -1, 64)
		return &s
	case bool:
		s := strconv.FormatBool(t)
		return &s
	default:
		return nil
	}
}

// StringFromAny coerces an arbitrary decoded JSON value to a plain string,
// applying the same junk-token rules as OptionalFromAny. Missing or junk
// values come back as "".
func StringFromAny(v any) string {
	if p := OptionalFromAny(v); p != nil {
		return *p
	}
	return ""
}
