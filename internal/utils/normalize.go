package utils

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NFC returns the canonical composed form of s, so that "ü" typed as
// u + combining diaeresis and "ü" as a single code point compare equal.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Lower maps s to the comparison form used for every case-insensitive check:
// NFC composition followed by a locale-independent lowercase mapping.
// A Caser is stateful, so one is created per call.
func Lower(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// LowerRunes is Lower split into runes.
func LowerRunes(s string) []rune {
	return []rune(Lower(s))
}
