package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics folds accented characters to their unaccented base
// form, leaving everything else untouched.
func StripDiacritics(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		return s
	}
	return out
}

// SanitizeStem makes a file name stem portable: accents folded and
// whitespace runs collapsed into single underscores.
func SanitizeStem(s string) string {
	fields := strings.Fields(StripDiacritics(strings.TrimSpace(s)))
	return strings.Join(fields, "_")
}
