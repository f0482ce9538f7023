// Package stats keeps per-process screening counters. It is an Observer the
// pipeline is built with, not global state; each Service counts only what it
// was handed.
package stats

import (
	"context"
	"sync"
	"time"

	"urlinfo/internal/domain"
	"urlinfo/internal/ports"
)

type Snapshot struct {
	StartTime       time.Time                       `json:"start_time"`
	UptimeSeconds   int64                           `json:"uptime_seconds"`
	Requests        int64                           `json:"requests_total"`
	Allowed         int64                           `json:"allowed_total"`
	Denied          int64                           `json:"denied_total"`
	Rejected        int64                           `json:"rejected_total"`
	Degraded        int64                           `json:"degraded_lookups_total"`
	Threats         map[domain.ThreatCategory]int64 `json:"threats_by_category"`
	DomainStatuses  map[domain.DomainStatus]int64   `json:"domain_statuses"`
	Rejections      map[domain.RejectReason]int64   `json:"rejections_by_reason"`
	AvgScreenMillis float64                         `json:"avg_screen_ms"`
}

type Service struct {
	now   func() time.Time
	start time.Time

	mu             sync.Mutex
	requests       int64
	allowed        int64
	denied         int64
	rejected       int64
	degraded       int64
	threats        map[domain.ThreatCategory]int64
	domainStatuses map[domain.DomainStatus]int64
	rejections     map[domain.RejectReason]int64
	totalDuration  time.Duration
}

var _ ports.Observer = (*Service)(nil)

func New() *Service { return newWithClock(time.Now) }

func newWithClock(now func() time.Time) *Service {
	return &Service{
		now:            now,
		start:          now(),
		threats:        make(map[domain.ThreatCategory]int64),
		domainStatuses: make(map[domain.DomainStatus]int64),
		rejections:     make(map[domain.RejectReason]int64),
	}
}

func (s *Service) Observe(_ context.Context, out ports.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	s.totalDuration += out.Duration
	if out.Rejection != nil {
		s.rejected++
		s.rejections[out.Rejection.Reason]++
		return
	}
	v := out.Verdict
	if v == nil {
		return
	}
	s.domainStatuses[v.DomainStatus]++
	if v.Degraded {
		s.degraded++
	}
	if v.Decision == domain.Allow {
		s.allowed++
		return
	}
	s.denied++
	if v.MatchedSignature != nil {
		s.threats[v.MatchedSignature.ThreatCategory]++
	}
}

func (s *Service) StartTime() time.Time { return s.start }

func (s *Service) Uptime() time.Duration { return s.now().Sub(s.start) }

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		StartTime:      s.start,
		UptimeSeconds:  int64(s.now().Sub(s.start).Seconds()),
		Requests:       s.requests,
		Allowed:        s.allowed,
		Denied:         s.denied,
		Rejected:       s.rejected,
		Degraded:       s.degraded,
		Threats:        make(map[domain.ThreatCategory]int64, len(s.threats)),
		DomainStatuses: make(map[domain.DomainStatus]int64, len(s.domainStatuses)),
		Rejections:     make(map[domain.RejectReason]int64, len(s.rejections)),
	}
	for k, v := range s.threats {
		snap.Threats[k] = v
	}
	for k, v := range s.domainStatuses {
		snap.DomainStatuses[k] = v
	}
	for k, v := range s.rejections {
		snap.Rejections[k] = v
	}
	if s.requests > 0 {
		snap.AvgScreenMillis = float64(s.totalDuration.Microseconds()) / 1000 / float64(s.requests)
	}
	return snap
}
