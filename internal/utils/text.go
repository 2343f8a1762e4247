package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims and NFC-normalizes free text from forms.
// Control characters other than newlines and tabs are dropped, and full-width
// spaces at the edges are trimmed like ASCII ones.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)

	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)

	return strings.TrimSpace(s)
}

// NormalizeName normalizes a respondent name and collapses inner runs of
// whitespace to one space. An empty result means no name was given.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(NormalizeText(s)), " ")
}
