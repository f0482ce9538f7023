package nats

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlinfo/internal/adapters/memory"
	"urlinfo/internal/domain"
	"urlinfo/internal/ports"
	"urlinfo/internal/seed"
	"urlinfo/internal/services/screening"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var at = time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))

func TestNewVerdictEventFromVerdict(t *testing.T) {
	ev, ok := NewVerdictEvent(ports.Outcome{
		Verdict: &domain.Verdict{
			RequestID:        "req-1",
			URL:              "http://example.com/?q=<script>",
			Decision:         domain.Deny,
			Reason:           "xss: matched",
			MatchedSignature: &domain.ThreatSignature{Pattern: "<script", ThreatCategory: domain.ThreatXSS},
			DomainStatus:     domain.StatusSafe,
		},
		Duration: 1500 * time.Microsecond,
	}, at)
	require.True(t, ok)
	assert.Equal(t, "req-1", ev.RequestID)
	assert.Equal(t, "DENY", ev.Decision)
	assert.Equal(t, "xss", ev.ThreatType)
	assert.Equal(t, "<script", ev.Pattern)
	assert.Equal(t, "safe", ev.DomainStatus)
	assert.Equal(t, 1.5, ev.DurationMS)
	assert.Equal(t, time.UTC, ev.Timestamp.Location())

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"threat_type":"xss"`)
	assert.NotContains(t, string(raw), "rejection")
}

func TestNewVerdictEventFromRejection(t *testing.T) {
	ev, ok := NewVerdictEvent(ports.Outcome{Rejection: &domain.Rejection{Reason: domain.RejectBadPort, Detail: "port 0 out of range", URL: "http://a.com:0"}}, at)
	require.True(t, ok)
	assert.Equal(t, "REJECTED", ev.Decision)
	assert.Equal(t, "bad_port", ev.Rejection)
	assert.Equal(t, "http://a.com:0", ev.URL)
	assert.Contains(t, ev.Reason, "port 0 out of range")
}

func TestNewVerdictEventEmpty(t *testing.T) {
	_, ok := NewVerdictEvent(ports.Outcome{}, at)
	assert.False(t, ok)
}

func runServer(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   server.RANDOM_PORT,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(ns.Shutdown)
	return ns
}

func TestPublisherEmitsOneEventPerScreen(t *testing.T) {
	ns := runServer(t)

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	sub, err := nc.SubscribeSync("test.verdicts")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	pub, err := NewPublisher(ns.ClientURL(), "test.verdicts", discard)
	require.NoError(t, err)
	t.Cleanup(pub.Close)

	store, err := memory.New(seed.Default())
	require.NoError(t, err)
	svc, err := screening.New(context.Background(), store, store, screening.Options{
		Capabilities: screening.AllCapabilities(),
	}, pub, discard)
	require.NoError(t, err)

	targets := []string{"example.com/", "malicious-site.com/", "example.com:0/"}
	for _, target := range targets {
		_, _ = svc.Screen(context.Background(), screening.ParseTarget(target))
	}
	require.NoError(t, pub.conn.Flush())

	for _, want := range []string{"ALLOW", "DENY", "REJECTED"} {
		msg, err := sub.NextMsg(2 * time.Second)
		require.NoError(t, err)
		var ev VerdictEvent
		require.NoError(t, json.Unmarshal(msg.Data, &ev))
		assert.Equal(t, want, ev.Decision)
		assert.NotEmpty(t, ev.URL)
	}

	_, err = sub.NextMsg(200 * time.Millisecond)
	assert.ErrorIs(t, err, nats.ErrTimeout)
}

func TestNewPublisherDefaultsSubject(t *testing.T) {
	ns := runServer(t)
	pub, err := NewPublisher(ns.ClientURL(), "", discard)
	require.NoError(t, err)
	t.Cleanup(pub.Close)
	assert.Equal(t, DefaultSubject, pub.subject)
}

func TestNewPublisherUnreachable(t *testing.T) {
	_, err := NewPublisher("nats://127.0.0.1:1", "", discard)
	assert.Error(t, err)
}
