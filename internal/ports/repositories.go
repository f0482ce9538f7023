package ports

import (
	"context"

	"urlinfo/internal/domain"
)

// SignatureRepository serves the threat signature corpus in insertion order.
type SignatureRepository interface {
	AllSignatures(ctx context.Context) ([]domain.ThreatSignature, error)
}

// DomainRepository looks up reputation records by normalized hostname.
type DomainRepository interface {
	FindDomain(ctx context.Context, hostname string) (rec domain.DomainRecord, found bool, err error)
}

// Seeder loads reference data into a store. Inserting an existing pattern or
// hostname is a no-op.
type Seeder interface {
	SeedSignatures(ctx context.Context, sigs []domain.ThreatSignature) error
	SeedDomains(ctx context.Context, recs []domain.DomainRecord) error
}
