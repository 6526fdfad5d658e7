// backend/src/validation/sanitizers.go
package validation

import (
	"strings"
	"unicode"
)

// maxCompanyNameLength caps company-name input; DART corp names are well
// under this.
const maxCompanyNameLength = 100

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1 // Drop the rune
	}, s)
}

// SanitizeCompanyName normalizes a company-name query/body parameter:
// strips unprintable characters, trims surrounding whitespace and caps the
// length. Returns the empty string for input that sanitizes to nothing.
func SanitizeCompanyName(s string) string {
	cleaned := strings.TrimSpace(StripUnprintable(s))
	if len(cleaned) > maxCompanyNameLength {
		runes := []rune(cleaned)
		if len(runes) > maxCompanyNameLength {
			cleaned = string(runes[:maxCompanyNameLength])
		}
	}
	return cleaned
}
