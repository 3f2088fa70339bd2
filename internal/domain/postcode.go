package domain

import (
	"regexp"
	"strings"
)

var ukPostcodeRegex = regexp.MustCompile(`^(GIR 0AA|[A-Z]{1,2}[0-9][A-Z0-9]? [0-9][A-Z]{2})$`)

// NormalizePostcode upper-cases a UK postcode and puts a single space before the inward code.
func NormalizePostcode(raw string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if len(compact) < 5 {
		return compact
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// IsValidPostcode reports whether raw is a well-formed UK postcode, ignoring case and spacing.
func IsValidPostcode(raw string) bool {
	return ukPostcodeRegex.MatchString(NormalizePostcode(raw))
}
