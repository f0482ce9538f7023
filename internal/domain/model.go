package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Core domain models used by the screening pipeline and the stores. HTTP
// response shapes live in the http adapter; keep these decoupled.

type PatternClass string

const (
	PatternPath       PatternClass = "path"
	PatternQueryParam PatternClass = "query_param"
	PatternFull       PatternClass = "full_pattern"
)

func (c PatternClass) Valid() bool {
	switch c {
	case PatternPath, PatternQueryParam, PatternFull:
		return true
	}
	return false
}

type ThreatCategory string

const (
	ThreatSQLInjection     ThreatCategory = "sql_injection"
	ThreatXSS              ThreatCategory = "xss"
	ThreatPathTraversal    ThreatCategory = "path_traversal"
	ThreatCommandInjection ThreatCategory = "command_injection"
	ThreatMalware          ThreatCategory = "malware"
)

func (c ThreatCategory) Valid() bool {
	switch c {
	case ThreatSQLInjection, ThreatXSS, ThreatPathTraversal, ThreatCommandInjection, ThreatMalware:
		return true
	}
	return false
}

// DomainStatus is the reputation classification of a host. StatusUnknown is
// never stored; it is what a lookup yields when no record exists.
type DomainStatus string

const (
	StatusSafe        DomainStatus = "safe"
	StatusMalicious   DomainStatus = "malicious"
	StatusPhishing    DomainStatus = "phishing"
	StatusBlacklisted DomainStatus = "blacklisted"
	StatusUnknown     DomainStatus = "unknown"
)

// Valid reports whether s may be persisted on a DomainRecord.
func (s DomainStatus) Valid() bool {
	switch s {
	case StatusSafe, StatusMalicious, StatusPhishing, StatusBlacklisted:
		return true
	}
	return false
}

// Hostile reports whether the status alone is enough to deny a URL.
func (s DomainStatus) Hostile() bool {
	switch s {
	case StatusMalicious, StatusPhishing, StatusBlacklisted:
		return true
	}
	return false
}

type ThreatSignature struct {
	Pattern        string         `json:"pattern" yaml:"pattern"`
	PatternClass   PatternClass   `json:"pattern_type" yaml:"pattern_type"`
	ThreatCategory ThreatCategory `json:"threat_type" yaml:"threat_type"`
	Description    string         `json:"description" yaml:"description"`
}

type DomainRecord struct {
	Hostname    string       `json:"hostname" yaml:"hostname"`
	Status      DomainStatus `json:"status" yaml:"status"`
	Description string       `json:"description" yaml:"description"`
	LastUpdated time.Time    `json:"last_updated" yaml:"last_updated"`
}

// NormalizeHostname lower-cases h and drops a trailing root dot, the form
// DomainRecord hostnames are stored and compared in.
func NormalizeHostname(h string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
}

// RawRequest is the two path segments a caller hands to the pipeline.
// HostAndPort may carry an explicit "scheme://" prefix.
type RawRequest struct {
	HostAndPort  string
	PathAndQuery string
}

// CanonicalURL is the decoded, validated form of a request. Port is zero
// when the URL carries none.
type CanonicalURL struct {
	Raw          string
	Scheme       string
	Hostname     string
	Port         int
	PathAndQuery string
}

func (u CanonicalURL) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Hostname)
	if u.Port != 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.Port))
	}
	b.WriteString(u.PathAndQuery)
	return b.String()
}

type Decision string

const (
	Allow Decision = "ALLOW"
	Deny  Decision = "DENY"
)

type Verdict struct {
	RequestID        string
	URL              string
	Decision         Decision
	Reason           string
	MatchedSignature *ThreatSignature
	DomainStatus     DomainStatus
	DomainRecord     *DomainRecord
	// Degraded is set when the reputation store could not be consulted and
	// the domain status fell back to unknown.
	Degraded bool
}

// ThreatType names the dominant cause of a DENY: the signature category or
// the hostile domain status. Empty for ALLOW.
func (v Verdict) ThreatType() string {
	if v.Decision != Deny {
		return ""
	}
	if v.MatchedSignature != nil {
		return string(v.MatchedSignature.ThreatCategory)
	}
	return string(v.DomainStatus)
}

type RejectReason string

const (
	RejectBadScheme   RejectReason = "bad_scheme"
	RejectBadHostname RejectReason = "bad_hostname"
	RejectBadPort     RejectReason = "bad_port"
	RejectMalformed   RejectReason = "malformed"
)

// Rejection is returned when a URL fails structural validation. It is a
// client error: the pipeline stops before matching and lookup.
type Rejection struct {
	Reason RejectReason
	Detail string
	URL    string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return fmt.Sprintf("invalid url: %s", r.Reason)
	}
	return fmt.Sprintf("invalid url: %s: %s", r.Reason, r.Detail)
}
