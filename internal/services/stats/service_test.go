package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"urlinfo/internal/domain"
	"urlinfo/internal/ports"
)

func TestObserveCounts(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newWithClock(func() time.Time { return clock })
	ctx := context.Background()

	s.Observe(ctx, ports.Outcome{Verdict: &domain.Verdict{Decision: domain.Allow, DomainStatus: domain.StatusSafe}, Duration: 2 * time.Millisecond})
	s.Observe(ctx, ports.Outcome{Verdict: &domain.Verdict{
		Decision:         domain.Deny,
		DomainStatus:     domain.StatusSafe,
		MatchedSignature: &domain.ThreatSignature{ThreatCategory: domain.ThreatXSS},
	}, Duration: 4 * time.Millisecond})
	s.Observe(ctx, ports.Outcome{Verdict: &domain.Verdict{Decision: domain.Deny, DomainStatus: domain.StatusPhishing}})
	s.Observe(ctx, ports.Outcome{Verdict: &domain.Verdict{Decision: domain.Allow, DomainStatus: domain.StatusUnknown, Degraded: true}})
	s.Observe(ctx, ports.Outcome{Rejection: &domain.Rejection{Reason: domain.RejectBadPort}})

	clock = clock.Add(90 * time.Second)
	snap := s.Snapshot()
	assert.EqualValues(t, 5, snap.Requests)
	assert.EqualValues(t, 2, snap.Allowed)
	assert.EqualValues(t, 2, snap.Denied)
	assert.EqualValues(t, 1, snap.Rejected)
	assert.EqualValues(t, 1, snap.Degraded)
	assert.EqualValues(t, 1, snap.Threats[domain.ThreatXSS])
	assert.EqualValues(t, 2, snap.DomainStatuses[domain.StatusSafe])
	assert.EqualValues(t, 1, snap.DomainStatuses[domain.StatusPhishing])
	assert.EqualValues(t, 1, snap.Rejections[domain.RejectBadPort])
	assert.EqualValues(t, 90, snap.UptimeSeconds)
	assert.InDelta(t, 1.2, snap.AvgScreenMillis, 0.001)
	assert.Equal(t, 90*time.Second, s.Uptime())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.Observe(context.Background(), ports.Outcome{Rejection: &domain.Rejection{Reason: domain.RejectMalformed}})
	snap := s.Snapshot()
	snap.Rejections[domain.RejectMalformed] = 100
	assert.EqualValues(t, 1, s.Snapshot().Rejections[domain.RejectMalformed])
}

func TestObserveConcurrent(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Observe(context.Background(), ports.Outcome{Verdict: &domain.Verdict{Decision: domain.Allow, DomainStatus: domain.StatusUnknown}})
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 50, s.Snapshot().Allowed)
}
