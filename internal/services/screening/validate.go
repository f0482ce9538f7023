package screening

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"

	"urlinfo/internal/domain"
)

const (
	maxPort        = 65535
	maxLabelLen    = 63
	maxHostnameLen = 253
)

// Validate checks that a decoded URL is an absolute http(s) URL with a DNS
// hostname and an in-range port. It must run on the decoded string so the
// checks see the same alphabet the matcher does.
func Validate(decoded string) (domain.CanonicalURL, error) {
	reject := func(reason domain.RejectReason, detail string) (domain.CanonicalURL, error) {
		return domain.CanonicalURL{}, &domain.Rejection{Reason: reason, Detail: detail, URL: decoded}
	}

	i := strings.Index(decoded, "://")
	if i <= 0 {
		return reject(domain.RejectMalformed, "missing scheme separator")
	}
	scheme := strings.ToLower(decoded[:i])
	for _, c := range scheme {
		if c < 'a' || c > 'z' {
			return reject(domain.RejectMalformed, "scheme contains invalid characters")
		}
	}
	if scheme != "http" && scheme != "https" {
		return reject(domain.RejectBadScheme, "scheme "+strconv.Quote(scheme)+" is not http or https")
	}

	rest := decoded[i+3:]
	// An encoded scheme in the host segment decodes to a second "scheme://".
	if nested, _ := splitScheme(rest); nested != "" && isLetters(nested) {
		return reject(domain.RejectBadScheme, "embedded scheme "+strconv.Quote(strings.ToLower(nested))+" in host")
	}
	authority, pathAndQuery := rest, ""
	if j := strings.IndexAny(rest, "/?#"); j >= 0 {
		authority, pathAndQuery = rest[:j], rest[j:]
	}
	if strings.Contains(authority, "@") {
		return reject(domain.RejectBadHostname, "userinfo is not allowed")
	}
	if strings.HasPrefix(authority, "[") {
		return reject(domain.RejectBadHostname, "IP literals are not supported")
	}

	host, port := authority, 0
	if j := strings.LastIndexByte(authority, ':'); j >= 0 {
		host = authority[:j]
		p, msg := parsePort(authority[j+1:])
		if msg != "" {
			return reject(domain.RejectBadPort, msg)
		}
		port = p
	}

	hostname, msg := normalizeHost(host)
	if msg != "" {
		return reject(domain.RejectBadHostname, msg)
	}

	switch {
	case pathAndQuery == "":
		pathAndQuery = "/"
	case pathAndQuery[0] != '/':
		pathAndQuery = "/" + pathAndQuery
	}

	return domain.CanonicalURL{
		Raw:          decoded,
		Scheme:       scheme,
		Hostname:     hostname,
		Port:         port,
		PathAndQuery: pathAndQuery,
	}, nil
}

func parsePort(s string) (int, string) {
	if s == "" {
		return 0, "empty port"
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, "port " + strconv.Quote(s) + " is not numeric"
		}
	}
	if len(s) > 5 {
		return 0, "port " + s + " out of range"
	}
	p, _ := strconv.Atoi(s)
	if p < 1 || p > maxPort {
		return 0, "port " + s + " out of range"
	}
	return p, ""
}

// normalizeHost lower-cases the hostname, converts internationalized names
// to punycode and enforces DNS label syntax. A single trailing root dot is
// dropped.
func normalizeHost(host string) (string, string) {
	if host == "" {
		return "", "empty hostname"
	}
	if !isASCII(host) {
		if !utf8.ValidString(host) {
			return "", "hostname is not valid UTF-8"
		}
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return "", "hostname is not a valid internationalized name"
		}
		host = ascii
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return "", "empty hostname"
	}
	if len(host) > maxHostnameLen {
		return "", "hostname too long"
	}
	for _, label := range strings.Split(host, ".") {
		if msg := checkLabel(label); msg != "" {
			return "", msg
		}
	}
	return host, ""
}

func checkLabel(label string) string {
	if label == "" {
		return "hostname has an empty label"
	}
	if len(label) > maxLabelLen {
		return "hostname label too long"
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return "hostname label starts or ends with a hyphen"
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !('a' <= c && c <= 'z' || '0' <= c && c <= '9' || c == '-') {
			return "hostname contains " + strconv.QuoteRune(rune(c))
		}
	}
	return ""
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
