package ports

import (
	"context"
	"time"

	"urlinfo/internal/domain"
)

// Screener runs a URL through the screening pipeline. The only error it
// returns is a *domain.Rejection.
type Screener interface {
	Screen(ctx context.Context, req domain.RawRequest) (domain.Verdict, error)
}

// Outcome is what an Observer sees after each Screen call. Exactly one of
// Verdict and Rejection is set.
type Outcome struct {
	Verdict   *domain.Verdict
	Rejection *domain.Rejection
	Duration  time.Duration
}

// Observer is notified after every Screen call. Implementations must be safe
// for concurrent use and must not block for long.
type Observer interface {
	Observe(ctx context.Context, out Outcome)
}

// Observers fans an outcome out to each observer in order.
type Observers []Observer

func (o Observers) Observe(ctx context.Context, out Outcome) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(ctx, out)
		}
	}
}

// NopObserver discards outcomes.
type NopObserver struct{}

func (NopObserver) Observe(context.Context, Outcome) {}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
