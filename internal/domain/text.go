package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText folds a name or location for comparison: lowercase,
// diacritics stripped, surrounding whitespace trimmed.
// "Đà Nẵng", " da nang " and "DA NANG" all normalize to "da nang".
func NormalizeText(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(foldStroke),
		norm.NFC,
	)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.TrimSpace(folded)
}

// foldStroke maps letters whose stroke NFD does not decompose.
func foldStroke(r rune) rune {
	switch r {
	case 'đ', 'Đ':
		return 'd'
	}
	return r
}

// SanitizeCode converts a tour code into the key used by the tour store:
// lowercased, every rune outside [a-z0-9-] replaced with a hyphen.
func SanitizeCode(code string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(code) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
	}
	return b.String()
}

// SameCode reports whether two tour codes identify the same tour.
func SameCode(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
