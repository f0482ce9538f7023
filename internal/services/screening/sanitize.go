package screening

import "strings"

// Sanitize strips ASCII control characters (0x00-0x1F, 0x7F) and surrounding
// whitespace. It is cleanup for logs and responses, not a security check, and
// runs only after matching.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
