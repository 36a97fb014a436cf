package util

import "strings"

// NormalizeText lowercases s, collapses every run of digits into a single
// '#' placeholder, and squeezes whitespace runs to single spaces. Invoice
// numbers and dates inside booking texts vary per occurrence; collapsing
// them lets otherwise identical texts group together.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDigits := false
	inSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= '0' && r <= '9':
			if !inDigits {
				b.WriteByte('#')
			}
			inDigits = true
			inSpace = false
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !inSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			inSpace = true
			inDigits = false
		default:
			b.WriteRune(r)
			inDigits = false
			inSpace = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}
