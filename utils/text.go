package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// copyMarkerRegexp matches the " (1)" suffix browsers append to repeated downloads.
var copyMarkerRegexp = regexp.MustCompile(`\s*\(\d+\)\s*$`)

// FoldKey returns a comparison key that ignores case, diacritics and
// repeated whitespace: "Citroën  SpaceTourer" and "CITROEN spacetourer"
// share a key.
func FoldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(NormaliseText(stripped))
}

// NormaliseText strips leading/trailing whitespace and collapses internal whitespace.
func NormaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// StripCopyMarker removes a trailing " (N)" from a file stem.
func StripCopyMarker(stem string) string {
	return copyMarkerRegexp.ReplaceAllString(stem, "")
}

// HasCopyMarker reports whether stem ends with " (N)".
func HasCopyMarker(stem string) bool {
	return copyMarkerRegexp.MatchString(stem)
}
