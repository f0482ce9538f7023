// Package nats publishes screening outcomes as JSON events for downstream
// audit consumers.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"urlinfo/internal/ports"
)

const (
	DefaultSubject = "urlinfo.verdicts"
	ConnectTimeout = 10 * time.Second
)

// VerdictEvent is the wire form of one Screen outcome.
type VerdictEvent struct {
	RequestID    string    `json:"request_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	URL          string    `json:"url"`
	Decision     string    `json:"decision"`
	Reason       string    `json:"reason"`
	ThreatType   string    `json:"threat_type,omitempty"`
	Pattern      string    `json:"pattern,omitempty"`
	DomainStatus string    `json:"domain_status,omitempty"`
	Degraded     bool      `json:"degraded,omitempty"`
	Rejection    string    `json:"rejection,omitempty"`
	DurationMS   float64   `json:"duration_ms"`
}

func NewVerdictEvent(out ports.Outcome, now time.Time) (VerdictEvent, bool) {
	ev := VerdictEvent{
		Timestamp:  now.UTC(),
		DurationMS: float64(out.Duration.Microseconds()) / 1000,
	}
	switch {
	case out.Rejection != nil:
		ev.URL = out.Rejection.URL
		ev.Decision = "REJECTED"
		ev.Reason = out.Rejection.Error()
		ev.Rejection = string(out.Rejection.Reason)
	case out.Verdict != nil:
		v := out.Verdict
		ev.RequestID = v.RequestID
		ev.URL = v.URL
		ev.Decision = string(v.Decision)
		ev.Reason = v.Reason
		ev.ThreatType = v.ThreatType()
		ev.DomainStatus = string(v.DomainStatus)
		ev.Degraded = v.Degraded
		if v.MatchedSignature != nil {
			ev.Pattern = v.MatchedSignature.Pattern
		}
	default:
		return VerdictEvent{}, false
	}
	return ev, true
}

// Publisher is an Observer that publishes each outcome to a subject. Publish
// errors are logged and dropped; they never affect the verdict.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.Observer = (*Publisher)(nil)

func NewPublisher(natsURL, subject string, logger *slog.Logger) (*Publisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(natsURL,
		nats.Name("urlinfo"),
		nats.Timeout(ConnectTimeout),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", natsURL, err)
	}
	logger.Info("NATS publisher initialized", "url", natsURL, "subject", subject)
	return &Publisher{conn: conn, subject: subject, logger: logger, now: time.Now}, nil
}

func (p *Publisher) Observe(_ context.Context, out ports.Outcome) {
	ev, ok := NewVerdictEvent(out, p.now())
	if !ok {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("failed to marshal verdict event", "error", err)
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		p.logger.Warn("failed to publish verdict event", "subject", p.subject, "error", err)
	}
}

// Close flushes pending events and closes the connection.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
