// Package screening decides whether a URL is safe to follow. A request moves
// through Decode, Validate, Matcher, Sanitize, ReputationLookup and Compose in
// that order; reordering any of the first three lets encoded payloads past.
package screening

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"urlinfo/internal/domain"
	"urlinfo/internal/ports"
)

// Capabilities toggles the two screening signals. A disabled matcher never
// matches; a disabled lookup reports every domain as unknown.
type Capabilities struct {
	SignatureMatching bool
	DomainLookup      bool
}

func AllCapabilities() Capabilities {
	return Capabilities{SignatureMatching: true, DomainLookup: true}
}

type Options struct {
	Capabilities Capabilities
	Strategy     MatchStrategy
	Reputation   ReputationOptions
}

type Service struct {
	signatures ports.SignatureRepository
	reputation *ReputationLookup
	opts       Options
	matcher    atomic.Pointer[loadedMatcher]
	observer   ports.Observer
	logger     *slog.Logger
}

type loadedMatcher struct{ Matcher }

// New builds the pipeline and loads the signature corpus once. The corpus is
// not re-read per request; call Reload after out-of-band maintenance.
func New(ctx context.Context, signatures ports.SignatureRepository, domains ports.DomainRepository, opts Options, observer ports.Observer, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = ports.NopObserver{}
	}
	if opts.Strategy == "" {
		opts.Strategy = MatchLinear
	}
	if !opts.Strategy.Valid() {
		return nil, fmt.Errorf("unknown match strategy %q", opts.Strategy)
	}
	s := &Service{
		signatures: signatures,
		reputation: NewReputationLookup(domains, opts.Reputation, logger),
		opts:       opts,
		observer:   observer,
		logger:     logger,
	}
	if !opts.Capabilities.SignatureMatching {
		s.matcher.Store(&loadedMatcher{newLinearMatcher(nil)})
		return s, nil
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the matcher from the signature repository. On failure the
// previous matcher stays in place.
func (s *Service) Reload(ctx context.Context) error {
	sigs, err := s.signatures.AllSignatures(ctx)
	if err != nil {
		return fmt.Errorf("load signatures: %w", err)
	}
	m, err := NewMatcher(s.opts.Strategy, sigs)
	if err != nil {
		return err
	}
	s.matcher.Store(&loadedMatcher{m})
	s.logger.Info("signature corpus loaded", "signatures", m.Len(), "strategy", s.opts.Strategy)
	return nil
}

// Screen runs one request through the pipeline. The returned error is
// always a *domain.Rejection; every other outcome is a Verdict.
func (s *Service) Screen(ctx context.Context, req domain.RawRequest) (domain.Verdict, error) {
	start := time.Now()

	decoded := Decode(req)
	canonical, err := Validate(decoded)
	if err != nil {
		var rej *domain.Rejection
		if errors.As(err, &rej) {
			rej.URL = Sanitize(rej.URL)
			s.logger.Debug("url rejected", "reason", rej.Reason, "detail", rej.Detail, "url", rej.URL)
			s.observer.Observe(ctx, ports.Outcome{Rejection: rej, Duration: time.Since(start)})
		}
		return domain.Verdict{}, err
	}

	var match *domain.ThreatSignature
	if s.opts.Capabilities.SignatureMatching {
		match = s.matcher.Load().Match(canonical.Raw)
	}

	cleaned := Sanitize(canonical.Raw)

	rep := Reputation{Status: domain.StatusUnknown}
	if s.opts.Capabilities.DomainLookup {
		rep = s.reputation.Lookup(ctx, canonical.Hostname)
	}

	v := Compose(match, rep)
	v.RequestID = uuid.NewString()
	v.URL = cleaned

	if v.Decision == domain.Deny {
		s.logger.Info("url denied", "request_id", v.RequestID, "url", v.URL, "threat", v.ThreatType(), "reason", v.Reason)
	} else {
		s.logger.Debug("url allowed", "request_id", v.RequestID, "url", v.URL, "domain_status", v.DomainStatus)
	}
	s.observer.Observe(ctx, ports.Outcome{Verdict: &v, Duration: time.Since(start)})
	return v, nil
}
