package screening

import (
	"fmt"

	"urlinfo/internal/domain"
)

// Compose merges the matcher and reputation results into a verdict. A
// signature match denies regardless of reputation; a hostile domain denies
// on its own; anything else is allowed.
func Compose(match *domain.ThreatSignature, rep Reputation) domain.Verdict {
	v := domain.Verdict{
		MatchedSignature: match,
		DomainStatus:     rep.Status,
		DomainRecord:     rep.Record,
		Degraded:         rep.Degraded,
	}
	if v.DomainStatus == "" {
		v.DomainStatus = domain.StatusUnknown
	}

	switch {
	case match != nil:
		v.Decision = domain.Deny
		v.Reason = fmt.Sprintf("%s: matched pattern %q", match.ThreatCategory, match.Pattern)
		if match.Description != "" {
			v.Reason += " (" + match.Description + ")"
		}
	case v.DomainStatus.Hostile():
		v.Decision = domain.Deny
		v.Reason = fmt.Sprintf("domain reputation: %s", v.DomainStatus)
		if rep.Record != nil && rep.Record.Description != "" {
			v.Reason += " (" + rep.Record.Description + ")"
		}
	default:
		v.Decision = domain.Allow
		v.Reason = fmt.Sprintf("no threat signatures matched; domain status %s", v.DomainStatus)
	}
	return v
}
