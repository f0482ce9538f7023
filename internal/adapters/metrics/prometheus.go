// Package metrics exports screening outcomes as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"urlinfo/internal/ports"
)

// Metrics holds the screening collectors. They are registered on the
// registerer passed to New rather than the global default.
type Metrics struct {
	Requests        *prometheus.CounterVec
	Rejections      *prometheus.CounterVec
	Threats         *prometheus.CounterVec
	DomainStatuses  *prometheus.CounterVec
	DegradedLookups prometheus.Counter
	ScreenDuration  prometheus.Histogram
}

var _ ports.Observer = (*Metrics)(nil)

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "urlinfo_screen_requests_total",
			Help: "Total number of screened URLs by outcome (ALLOW, DENY, REJECTED)",
		}, []string{"outcome"}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "urlinfo_validation_rejections_total",
			Help: "Total number of URLs rejected by structural validation",
		}, []string{"reason"}),
		Threats: f.NewCounterVec(prometheus.CounterOpts{
			Name: "urlinfo_signature_matches_total",
			Help: "Total number of threat signature matches by category",
		}, []string{"category"}),
		DomainStatuses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "urlinfo_domain_lookups_total",
			Help: "Total number of reputation lookups by resulting status",
		}, []string{"status"}),
		DegradedLookups: f.NewCounter(prometheus.CounterOpts{
			Name: "urlinfo_degraded_lookups_total",
			Help: "Total number of reputation lookups that fell back to unknown because the store was unavailable",
		}),
		ScreenDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "urlinfo_screen_duration_seconds",
			Help:    "Time spent screening one URL",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

func (m *Metrics) Observe(_ context.Context, out ports.Outcome) {
	m.ScreenDuration.Observe(out.Duration.Seconds())
	if out.Rejection != nil {
		m.Requests.WithLabelValues("REJECTED").Inc()
		m.Rejections.WithLabelValues(string(out.Rejection.Reason)).Inc()
		return
	}
	v := out.Verdict
	if v == nil {
		return
	}
	m.Requests.WithLabelValues(string(v.Decision)).Inc()
	m.DomainStatuses.WithLabelValues(string(v.DomainStatus)).Inc()
	if v.MatchedSignature != nil {
		m.Threats.WithLabelValues(string(v.MatchedSignature.ThreatCategory)).Inc()
	}
	if v.Degraded {
		m.DegradedLookups.Inc()
	}
}
