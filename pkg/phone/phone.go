// Package phone normalizes customer contact strings to Tanzanian MSISDN
// form so that order lookups by contact are exact-match stable.
package phone

import "strings"

// Normalize strips non-digit characters and rewrites local Tanzanian
// formats (leading 0, or a bare 9-digit subscriber number) to the
// 255-prefixed international form. Anything else is returned digits-only.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	switch {
	case strings.HasPrefix(cleaned, "255"):
		return cleaned
	case strings.HasPrefix(cleaned, "0"):
		return "255" + cleaned[1:]
	case len(cleaned) == 9:
		return "255" + cleaned
	}
	return cleaned
}

// ValidContact reports whether a contact string is plausible enough to
// key an order lookup. Contacts shorter than nine digits are rejected
// outright rather than risking broad matches.
func ValidContact(raw string) bool {
	return len(Normalize(raw)) >= 9
}
