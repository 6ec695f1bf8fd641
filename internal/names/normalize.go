// Package names provides name normalization for lookups that should tolerate
// diacritics and formatting differences (e.g., "Trần Văn An" vs "tran van an").
// Identity keys themselves remain case-sensitive and exact; normalization is
// only used for filtering.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Trần" -> "Tran").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Normalize normalizes a name for comparison (lowercase, no diacritics, spaces for dashes).
func Normalize(name string) string {
	name = RemoveDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}

// Equal reports whether two names match after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
