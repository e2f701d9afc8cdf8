package reference

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a medicine or ingredient name for lookup:
// surrounding whitespace is trimmed, combining marks are stripped and the
// result is lower-cased, so "Paracétamol " and "paracetamol" are equal.
func NormalizeName(name string) string {
	// A transform chain keeps state, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
