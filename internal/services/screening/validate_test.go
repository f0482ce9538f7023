package screening

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlinfo/internal/domain"
)

func TestValidateAccepts(t *testing.T) {
	cases := []struct {
		in   string
		want domain.CanonicalURL
	}{
		{"http://example.com", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", PathAndQuery: "/"}},
		{"https://example.com", domain.CanonicalURL{Scheme: "https", Hostname: "example.com", PathAndQuery: "/"}},
		{"HTTP://Example.COM/Path", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", PathAndQuery: "/Path"}},
		{"http://example.com:8080", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", Port: 8080, PathAndQuery: "/"}},
		{"http://example.com:1", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", Port: 1, PathAndQuery: "/"}},
		{"http://example.com:65535", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", Port: 65535, PathAndQuery: "/"}},
		{"http://example.com/path/to/resource", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", PathAndQuery: "/path/to/resource"}},
		{"http://example.com/search?q=test", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", PathAndQuery: "/search?q=test"}},
		{"http://example.com?q=test", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", PathAndQuery: "/?q=test"}},
		{"http://sub.example.co.uk/x y", domain.CanonicalURL{Scheme: "http", Hostname: "sub.example.co.uk", PathAndQuery: "/x y"}},
		{"http://127.0.0.1:8000/", domain.CanonicalURL{Scheme: "http", Hostname: "127.0.0.1", Port: 8000, PathAndQuery: "/"}},
		{"http://a-b.example/", domain.CanonicalURL{Scheme: "http", Hostname: "a-b.example", PathAndQuery: "/"}},
		{"http://bücher.example/", domain.CanonicalURL{Scheme: "http", Hostname: "xn--bcher-kva.example", PathAndQuery: "/"}},
		{"http://Example.COM./a", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", PathAndQuery: "/a"}},
		{"http://example.com.:8080/", domain.CanonicalURL{Scheme: "http", Hostname: "example.com", Port: 8080, PathAndQuery: "/"}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Validate(tc.in)
			require.NoError(t, err)
			tc.want.Raw = tc.in
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		in     string
		reason domain.RejectReason
	}{
		{"ftp://example.com", domain.RejectBadScheme},
		{"ftp://example.com/<script>", domain.RejectBadScheme},
		{"javascript://example.com", domain.RejectBadScheme},
		{"http://ftp://example.com/", domain.RejectBadScheme},
		{"http://HTTPS://example.com", domain.RejectBadScheme},
		{"http://example.com:80://x", domain.RejectBadPort},
		{"example.com/path", domain.RejectMalformed},
		{"://example.com", domain.RejectMalformed},
		{"ht1p://example.com", domain.RejectMalformed},
		{"http://", domain.RejectBadHostname},
		{"http:///path", domain.RejectBadHostname},
		{"http://exa mple.com/", domain.RejectBadHostname},
		{"http://exa_mple.com/", domain.RejectBadHostname},
		{"http://-example.com/", domain.RejectBadHostname},
		{"http://example-.com/", domain.RejectBadHostname},
		{"http://example..com/", domain.RejectBadHostname},
		{"http://example.com../", domain.RejectBadHostname},
		{"http://./", domain.RejectBadHostname},
		{"http://user:pw@example.com/", domain.RejectBadHostname},
		{"http://[::1]/", domain.RejectBadHostname},
		{"http://" + strings.Repeat("a", 64) + ".com/", domain.RejectBadHostname},
		{"http://example.com:0", domain.RejectBadPort},
		{"http://example.com:65536", domain.RejectBadPort},
		{"http://example.com:99999/path", domain.RejectBadPort},
		{"http://example.com:123456", domain.RejectBadPort},
		{"http://example.com:abc", domain.RejectBadPort},
		{"http://example.com:-1", domain.RejectBadPort},
		{"http://example.com:", domain.RejectBadPort},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Validate(tc.in)
			require.Error(t, err)
			var rej *domain.Rejection
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, tc.reason, rej.Reason)
			assert.Equal(t, tc.in, rej.URL)
			assert.NotEmpty(t, rej.Detail)
		})
	}
}

func TestCanonicalURLString(t *testing.T) {
	u, err := Validate("https://Example.com:8443?q=1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:8443/?q=1", u.String())
}
