// Package memory is a read-only in-process reference store built from a seed
// corpus. It needs no locking: nothing mutates it after New.
package memory

import (
	"context"
	"errors"

	"urlinfo/internal/domain"
	"urlinfo/internal/seed"
)

var ErrUnavailable = errors.New("memory store unavailable")

type Store struct {
	signatures []domain.ThreatSignature
	domains    map[string]domain.DomainRecord
}

func New(c seed.Corpus) (*Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := &Store{
		signatures: append([]domain.ThreatSignature(nil), c.Signatures...),
		domains:    make(map[string]domain.DomainRecord, len(c.Domains)),
	}
	for _, d := range c.Domains {
		s.domains[d.Hostname] = d
	}
	return s, nil
}

func (s *Store) AllSignatures(ctx context.Context) ([]domain.ThreatSignature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.ThreatSignature(nil), s.signatures...), nil
}

func (s *Store) FindDomain(ctx context.Context, hostname string) (domain.DomainRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.DomainRecord{}, false, err
	}
	rec, ok := s.domains[domain.NormalizeHostname(hostname)]
	return rec, ok, nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Unavailable is a DomainRepository and SignatureRepository whose every call
// fails, for exercising degraded mode.
type Unavailable struct{}

func (Unavailable) AllSignatures(context.Context) ([]domain.ThreatSignature, error) {
	return nil, ErrUnavailable
}

func (Unavailable) FindDomain(context.Context, string) (domain.DomainRecord, bool, error) {
	return domain.DomainRecord{}, false, ErrUnavailable
}
