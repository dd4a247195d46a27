// Package countries maps human-readable country names to ISO3 codes.
package countries

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/protectedareas/wdpa-server/internal/domain"
)

var (
	// Matches any run of characters that are not lowercase letters or digits.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Three ASCII letters, optionally padded.
	iso3Pattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// NormalizeName reduces a country name to a comparison key.
// "Côte d'Ivoire" -> "cote d ivoire".
// "  KENYA " -> "kenya".
func NormalizeName(s string) string {
	// Decompose accented characters so the base letter survives.
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// LooksLikeCode reports whether s has the shape of an ISO3 code.
func LooksLikeCode(s string) bool {
	return iso3Pattern.MatchString(strings.TrimSpace(s))
}

// LooksLikeCodeKey reports whether s is an ISO3 code or several joined by
// domain.CountryKeySeparator ("FRA;ITA").
func LooksLikeCodeKey(s string) bool {
	for _, part := range strings.Split(s, domain.CountryKeySeparator) {
		if !LooksLikeCode(part) {
			return false
		}
	}
	return true
}
