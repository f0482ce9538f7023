package screening

import (
	"strings"

	"urlinfo/internal/domain"
)

// ParseTarget splits "host[:port]/path?query" into the two request segments.
// An explicit scheme prefix stays on the host segment; a scheme whose "//"
// was collapsed to "/" by a proxy ("https:/host/x") is repaired. The target
// is still encoded: no decoding happens here.
func ParseTarget(target string) domain.RawRequest {
	var prefix string
	if scheme, rest := splitScheme(target); scheme != "" {
		prefix, target = scheme+"://", rest
	} else if scheme, rest, ok := collapsedScheme(target); ok {
		prefix, target = scheme+"://", rest
	}
	end := strings.IndexAny(target, "/?")
	if end < 0 {
		return domain.RawRequest{HostAndPort: prefix + target}
	}
	return domain.RawRequest{HostAndPort: prefix + target[:end], PathAndQuery: target[end:]}
}

func collapsedScheme(s string) (scheme, rest string, ok bool) {
	i := strings.Index(s, ":/")
	if i <= 0 || strings.HasPrefix(s[i:], "://") {
		return "", s, false
	}
	for j := 0; j < i; j++ {
		c := s[j]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return "", s, false
		}
	}
	return s[:i], s[i+2:], true
}
