package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"urlinfo/internal/domain"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		req  domain.RawRequest
		want string
	}{
		{"host only", domain.RawRequest{HostAndPort: "example.com"}, "http://example.com"},
		{"no encoding", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/path"}, "http://example.com/path"},
		{"path without slash", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "a/b"}, "http://example.com/a/b"},
		{"spaces in path", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/path%20with%20spaces"}, "http://example.com/path with spaces"},
		{"plus stays in path", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/a+b"}, "http://example.com/a+b"},
		{"plus is space in query", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/search?q=hello+world"}, "http://example.com/search?q=hello world"},
		{"encoded plus in query", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/s?q=1%2B1"}, "http://example.com/s?q=1+1"},
		{"encoded hostname", domain.RawRequest{HostAndPort: "example%2Ecom", PathAndQuery: "/path"}, "http://example.com/path"},
		{"port kept", domain.RawRequest{HostAndPort: "example.com:8080", PathAndQuery: "/"}, "http://example.com:8080/"},
		{"query without path", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "?q=1"}, "http://example.com/?q=1"},
		{"explicit https", domain.RawRequest{HostAndPort: "https://example.com", PathAndQuery: "/x"}, "https://example.com/x"},
		{"explicit ftp kept for validator", domain.RawRequest{HostAndPort: "ftp://example.com"}, "ftp://example.com"},
		{"sql injection", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/search?q=%27%20OR%201%3D1"}, "http://example.com/search?q=' OR 1=1"},
		{"script tag", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/page?input=%3Cscript%3E"}, "http://example.com/page?input=<script>"},
		{"encoded slashes", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/..%2F..%2Fetc%2Fpasswd"}, "http://example.com/../../etc/passwd"},
		{"lowercase hex", domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/%3cb%3e"}, "http://example.com/<b>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decode(tc.req))
		})
	}
}

func TestDecodePassesMalformedEscapesThrough(t *testing.T) {
	cases := map[string]string{
		"/100%":       "http://example.com/100%",
		"/%zz":        "http://example.com/%zz",
		"/%4":         "http://example.com/%4",
		"/%%41":       "http://example.com/%A",
		"/ok?x=%g1+y": "http://example.com/ok?x=%g1 y",
	}
	for in, want := range cases {
		assert.Equal(t, want, Decode(domain.RawRequest{HostAndPort: "example.com", PathAndQuery: in}), in)
	}
}

func TestDecodeIsSinglePass(t *testing.T) {
	// %2527 decodes to %27, not to a quote.
	got := Decode(domain.RawRequest{HostAndPort: "example.com", PathAndQuery: "/?q=%2527"})
	assert.Equal(t, "http://example.com/?q=%27", got)
}

func TestSplitScheme(t *testing.T) {
	cases := []struct{ in, scheme, rest string }{
		{"https://a.com", "https", "a.com"},
		{"HTTP://a.com", "HTTP", "a.com"},
		{"svn+ssh://a.com", "svn+ssh", "a.com"},
		{"a.com", "", "a.com"},
		{"://a.com", "", "://a.com"},
		{"1http://a.com", "", "1http://a.com"},
	}
	for _, tc := range cases {
		scheme, rest := splitScheme(tc.in)
		assert.Equal(t, tc.scheme, scheme, tc.in)
		assert.Equal(t, tc.rest, rest, tc.in)
	}
}
