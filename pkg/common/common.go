package common

import (
	"crypto/subtle"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var spaceRegex = regexp.MustCompile(`\s+`)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RemoveAccents strips combining diacritical marks: "Felícia" -> "Felicia".
func RemoveAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName lowercases and accent-strips a name for matching purposes.
func NormalizeName(s string) string {
	return strings.ToLower(RemoveAccents(s))
}

// Slugify lowercases a name and collapses whitespace runs to underscores.
// Accents are preserved; see CategorySlug for the accent-stripping variant.
func Slugify(s string) string {
	return spaceRegex.ReplaceAllString(strings.ToLower(s), "_")
}

// CategorySlug derives a category identifier from its display label:
// casefold, strip accents, whitespace to underscore.
func CategorySlug(label string) string {
	return spaceRegex.ReplaceAllString(NormalizeName(label), "_")
}

// SecureEqual compares two strings in constant time.
func SecureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// FormatBRL renders a price the way the storefront displays it: "R$ 89,90".
func FormatBRL(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.ReplaceAll(s, ".", ",")
	// thousands separator
	if i := strings.Index(s, ","); i > 3 {
		var b strings.Builder
		intPart := s[:i]
		for j, r := range intPart {
			if j > 0 && (len(intPart)-j)%3 == 0 {
				b.WriteRune('.')
			}
			b.WriteRune(r)
		}
		s = b.String() + s[i:]
	}
	return "R$ " + s
}

// DigitsOnly keeps only ASCII digits, used for CEP sanitizing.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
