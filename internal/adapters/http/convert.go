package httpadapter

import (
	"urlinfo/internal/api"
	"urlinfo/internal/domain"
	"urlinfo/internal/services/stats"
)

func newVerdict(v domain.Verdict) api.Verdict {
	status := v.DomainStatus
	if status == "" {
		status = domain.StatusUnknown
	}
	rep := api.ReputationCheck{Status: string(status)}
	if rec := v.DomainRecord; rec != nil {
		if rec.Description != "" {
			desc := rec.Description
			rep.Description = &desc
		}
		if !rec.LastUpdated.IsZero() {
			updated := rec.LastUpdated.UTC()
			rep.LastUpdated = &updated
		}
	}

	patterns := api.PatternCheck{Detected: v.MatchedSignature != nil}
	if sig := v.MatchedSignature; sig != nil {
		patterns.Signature = &api.ThreatSignature{
			Pattern:     sig.Pattern,
			PatternType: string(sig.PatternClass),
			ThreatType:  string(sig.ThreatCategory),
			Description: sig.Description,
		}
	}

	out := api.Verdict{
		Valid:     true,
		Url:       v.URL,
		Decision:  string(v.Decision),
		Reason:    v.Reason,
		RequestId: v.RequestID,
		SecurityChecks: api.SecurityChecks{
			MaliciousPatterns: patterns,
			DomainReputation:  rep,
			ThreatDetected:    v.Decision == domain.Deny,
		},
	}
	if tt := v.ThreatType(); tt != "" {
		out.ThreatType = &tt
	}
	if v.Degraded {
		degraded := true
		out.Degraded = &degraded
	}
	return out
}

func newRejection(rej *domain.Rejection) api.Rejection {
	out := api.Rejection{
		Valid:    false,
		Decision: string(domain.Deny),
		Error:    "invalid_url",
		Reason:   string(rej.Reason),
		Message:  rej.Error(),
	}
	if rej.URL != "" {
		u := rej.URL
		out.Url = &u
	}
	return out
}

func newStats(snap stats.Snapshot) api.Stats {
	out := api.Stats{
		StartTime:            snap.StartTime.UTC(),
		UptimeSeconds:        snap.UptimeSeconds,
		RequestsTotal:        snap.Requests,
		AllowedTotal:         snap.Allowed,
		DeniedTotal:          snap.Denied,
		RejectedTotal:        snap.Rejected,
		DegradedLookupsTotal: snap.Degraded,
		ThreatsByCategory:    make(map[string]int64, len(snap.Threats)),
		DomainStatuses:       make(map[string]int64, len(snap.DomainStatuses)),
		RejectionsByReason:   make(map[string]int64, len(snap.Rejections)),
		AvgScreenMs:          snap.AvgScreenMillis,
	}
	for k, v := range snap.Threats {
		out.ThreatsByCategory[string(k)] = v
	}
	for k, v := range snap.DomainStatuses {
		out.DomainStatuses[string(k)] = v
	}
	for k, v := range snap.Rejections {
		out.RejectionsByReason[string(k)] = v
	}
	return out
}
