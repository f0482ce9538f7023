package screening

import (
	"strings"

	"urlinfo/internal/domain"
)

const defaultScheme = "http"

// Decode percent-decodes a raw request into the absolute URL string every
// later stage reasons about. The query additionally decodes '+' as a space.
// Malformed escapes are kept verbatim; rejecting bad structure is the
// validator's job.
func Decode(req domain.RawRequest) string {
	scheme, hostPort := splitScheme(req.HostAndPort)
	if scheme == "" {
		scheme = defaultScheme
	}

	path, query, hasQuery := strings.Cut(req.PathAndQuery, "?")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == "" && hasQuery {
		path = "/"
	}

	var b strings.Builder
	b.Grow(len(scheme) + 3 + len(req.HostAndPort) + len(req.PathAndQuery))
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(unescape(hostPort, false))
	b.WriteString(unescape(path, false))
	if hasQuery {
		b.WriteByte('?')
		b.WriteString(unescape(query, true))
	}
	return b.String()
}

// splitScheme peels an explicit "scheme://" prefix off the host segment.
func splitScheme(s string) (scheme, rest string) {
	i := strings.Index(s, "://")
	if i <= 0 {
		return "", s
	}
	for j := 0; j < i; j++ {
		c := s[j]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case j > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return "", s
		}
	}
	return s[:i], s[i+3:]
}

// unescape is a lenient percent-decoder: a '%' not followed by two hex digits
// is copied through unchanged.
func unescape(s string, plusAsSpace bool) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		case c == '+' && plusAsSpace:
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func ishex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
