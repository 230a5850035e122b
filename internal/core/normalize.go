package core

// normalize.go provides whitespace normalization for free-text cell
// values. Every comparison between datasets normalizes both sides with
// the same functions, so "Leadership " in one file matches "Leadership"
// in the other.

import "strings"

// NormalizeSpaces collapses every run of whitespace (spaces, tabs,
// newlines, non-breaking spaces) into a single ASCII space and trims
// leading and trailing whitespace. Empty input yields an empty string.
//
// The function is pure and idempotent:
// NormalizeSpaces(NormalizeSpaces(s)) == NormalizeSpaces(s).
func NormalizeSpaces(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

// CleanCell removes common spreadsheet export artifacts from a cell
// value and normalizes its whitespace:
//   - strips the "_x000D_" carriage-return marker xlsx exports leave in
//     multi-line cells
//   - collapses and trims whitespace via NormalizeSpaces
func CleanCell(s string) string {
	s = strings.ReplaceAll(s, "_x000D_", "")
	return NormalizeSpaces(s)
}

// CleanMultiline strips export artifacts and trims the ends of a cell
// value while preserving its internal line breaks. Used for free-text
// fields (descriptions, participant answers) where the line structure
// carries meaning.
func CleanMultiline(s string) string {
	s = strings.ReplaceAll(s, "_x000D_", "")
	return strings.TrimSpace(s)
}

// SplitList splits a list-valued cell on the separator, cleaning each
// part and dropping empties. "A, B ,, C" with separator ',' yields
// ["A", "B", "C"].
func SplitList(s string, sep rune) []string {
	var parts []string
	for _, part := range strings.Split(s, string(sep)) {
		part = NormalizeSpaces(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
