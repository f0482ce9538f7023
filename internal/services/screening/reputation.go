package screening

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/net/publicsuffix"

	"urlinfo/internal/domain"
	"urlinfo/internal/ports"
)

// Reputation is the outcome of a host lookup. Status is StatusUnknown when
// no record exists or the store could not be reached (Degraded).
type Reputation struct {
	Status   domain.DomainStatus
	Record   *domain.DomainRecord
	Degraded bool
}

func (r Reputation) Found() bool { return r.Record != nil }

type ReputationOptions struct {
	// Timeout bounds each store query. Zero means no extra deadline.
	Timeout time.Duration
	// ParentFallback retries a miss with the registrable domain (eTLD+1).
	ParentFallback bool
}

// ReputationLookup resolves hostnames against a DomainRepository. An absent
// record is permissive; an unreachable store degrades to unknown instead of
// failing the request.
type ReputationLookup struct {
	domains ports.DomainRepository
	opts    ReputationOptions
	logger  *slog.Logger
}

func NewReputationLookup(domains ports.DomainRepository, opts ReputationOptions, logger *slog.Logger) *ReputationLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReputationLookup{domains: domains, opts: opts, logger: logger}
}

func (l *ReputationLookup) Lookup(ctx context.Context, hostname string) Reputation {
	host := domain.NormalizeHostname(hostname)
	rec, found, err := l.find(ctx, host)
	if err == nil && !found && l.opts.ParentFallback {
		if parent, perr := publicsuffix.EffectiveTLDPlusOne(host); perr == nil && parent != host {
			rec, found, err = l.find(ctx, parent)
		}
	}
	if err != nil {
		l.logger.Warn("reputation lookup unavailable, treating domain as unknown",
			"hostname", host, "error", err)
		return Reputation{Status: domain.StatusUnknown, Degraded: true}
	}
	if !found {
		return Reputation{Status: domain.StatusUnknown}
	}
	return Reputation{Status: rec.Status, Record: &rec}
}

func (l *ReputationLookup) find(ctx context.Context, host string) (domain.DomainRecord, bool, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}
	return l.domains.FindDomain(ctx, host)
}
